// Package theme resolves which of the six color themes applies to a component
// and scopes that choice over a subtree of rendered blocks.
package theme

import (
	"fmt"
	"strings"
)

// Theme is one value from the closed set of color themes. The string values are
// the contract with the styling layer and must not change.
type Theme string

// The six recognised themes.
const (
	Light            Theme = "light"
	Dark             Theme = "dark"
	Accent           Theme = "accent"
	Gradient         Theme = "gradient"
	TransparentLight Theme = "transparent-light"
	TransparentDark  Theme = "transparent-dark"
)

// Default is the theme used when nothing else applies.
const Default = Light

// MarkerAttribute is the attribute stamped on every scope boundary. CSS custom
// properties are keyed by its value.
const MarkerAttribute = "data-theme"

var all = []Theme{Light, Dark, Accent, Gradient, TransparentLight, TransparentDark}

// All returns the six themes in their canonical order.
func All() []Theme {
	out := make([]Theme, len(all))
	copy(out, all)
	return out
}

// Names returns the theme values as plain strings, for enum inputs.
func Names() []string {
	out := make([]string, len(all))
	for i, t := range all {
		out[i] = string(t)
	}
	return out
}

// Valid reports whether t is a member of the closed set.
func (t Theme) Valid() bool {
	for _, candidate := range all {
		if t == candidate {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (t Theme) String() string {
	return string(t)
}

// IsDark reports whether foreground content should be light on this theme.
func (t Theme) IsDark() bool {
	switch t {
	case Dark, Accent, Gradient, TransparentDark:
		return true
	default:
		return false
	}
}

// Parse converts s to a Theme. Matching ignores case and surrounding space.
// The empty string parses to the zero Theme, meaning "not supplied".
func Parse(s string) (Theme, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	t := Theme(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown theme %q: must be one of %s", s, strings.Join(Names(), ", "))
	}
	return t, nil
}
