package registry

import (
	"encoding/json"
	"slices"
)

// Component describes one visual component to the page builder.
type Component struct {
	Name               string             `json:"name" validate:"required,max=64"`
	FriendlyName       string             `json:"friendlyName,omitempty"`
	Description        string             `json:"description,omitempty"`
	Image              string             `json:"image,omitempty" validate:"omitempty,url"`
	Inputs             []Input            `json:"inputs" validate:"dive"`
	DefaultStyles      map[string]string  `json:"defaultStyles,omitempty"`
	ChildRequirements  *ChildRequirements `json:"childRequirements,omitempty"`
	CanHaveChildren    bool               `json:"canHaveChildren,omitempty"`
	Override           bool               `json:"override,omitempty"`
	HideFromInsertMenu bool               `json:"hideFromInsertMenu,omitempty"`
	NoWrap             bool               `json:"noWrap,omitempty"`

	// Themeable components accept the theme and inheritTheme inputs.
	Themeable bool `json:"-"`
	// InheritThemeDefault is the component's inheritTheme value when the
	// editor leaves it unset.
	InheritThemeDefault bool `json:"-"`
}

// Input returns the named top-level input.
func (c Component) Input(name string) (Input, bool) {
	for _, in := range c.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// Defaults returns the default value of every top-level input that has one.
func (c Component) Defaults() Values {
	out := make(Values, len(c.Inputs))
	for _, in := range c.Inputs {
		if in.DefaultValue != nil {
			out[in.Name] = in.DefaultValue
		}
	}
	return out
}

// WithDefaults overlays values on the component defaults, the way the editor
// populates a freshly inserted block.
func (c Component) WithDefaults(values Values) Values {
	out := c.Defaults()
	for k, v := range values {
		out[k] = v
	}
	return out
}

// VisibleInputs returns the inputs whose showIf holds for values, evaluated
// after defaults are applied.
func (c Component) VisibleInputs(values Values) []Input {
	effective := c.WithDefaults(values)
	out := make([]Input, 0, len(c.Inputs))
	for _, in := range c.Inputs {
		if in.Visible(effective) {
			out = append(out, in)
		}
	}
	return out
}

// ChildRequirements restricts which components may be nested directly inside
// another.
type ChildRequirements struct {
	Message string
	Allowed []string
}

// Allows reports whether a child with the given component name is permitted.
func (r *ChildRequirements) Allows(name string) bool {
	if r == nil {
		return true
	}
	return slices.Contains(r.Allowed, name)
}

// MarshalJSON emits the editor's query form.
func (r *ChildRequirements) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"message": r.Message,
		"query": map[string]any{
			"component.name": map[string]any{"$in": r.Allowed},
		},
	})
}
