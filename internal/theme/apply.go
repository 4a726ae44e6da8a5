package theme

// Props are the theming fields shared by every themeable component.
// InheritTheme is a pointer so that an unset value falls back to the
// component's own default.
type Props struct {
	Theme        Theme `json:"theme,omitempty"`
	InheritTheme *bool `json:"inheritTheme,omitempty"`
}

// Inherit returns the effective inherit flag given the component default.
func (p Props) Inherit(componentDefault bool) bool {
	if p.InheritTheme == nil {
		return componentDefault
	}
	return *p.InheritTheme
}

// Applied describes how a component sits in the theme tree.
type Applied struct {
	// Scope is the scope the component and its children render in.
	Scope *Scope
	// Resolution is the component's own effective theme.
	Resolution Resolution
	// Boundary is true when the component opened a new scope and must carry
	// the marker attribute.
	Boundary bool
}

// Apply implements the component wrapping rule: a component with an explicit
// theme that does not inherit wraps itself in a fresh provider. Every other
// component renders in the ambient scope without a boundary.
func Apply(ambient *Scope, p Props, componentDefault bool) Applied {
	inherit := p.Inherit(componentDefault)
	if p.Theme.Valid() && !inherit {
		scope := Provide(ambient, p.Theme, false)
		return Applied{
			Scope:      scope,
			Resolution: Resolution{Theme: scope.Theme(), Source: SourceExplicit},
			Boundary:   true,
		}
	}
	return Applied{
		Scope:      ambient,
		Resolution: Resolve(p.Theme, inherit, ambient),
	}
}
