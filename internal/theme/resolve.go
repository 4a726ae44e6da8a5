package theme

// Source records which rule produced a resolved theme.
type Source int

const (
	// SourceDefault means no explicit theme and no ambient scope were available.
	SourceDefault Source = iota
	// SourceExplicit means the component's own theme was used.
	SourceExplicit
	// SourceInherited means the ambient scope's theme was used.
	SourceInherited
)

// String implements fmt.Stringer.
func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceInherited:
		return "inherited"
	default:
		return "default"
	}
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Theme  Theme
	Source Source
}

// Inherited reports whether the theme came from the ambient scope.
func (r Resolution) Inherited() bool {
	return r.Source == SourceInherited
}

// Resolve computes the effective theme for a component.
//
// An empty or unrecognised explicit theme counts as not supplied, and a nil
// ambient scope means no provider encloses the component. The first matching
// rule wins:
//
//  1. inherit requested and an ambient scope exists: the ambient theme
//  2. an explicit theme: that theme
//  3. an ambient scope exists: the ambient theme, even without inherit
//  4. Light
//
// Rule 3 keeps unthemed children of a themed parent from reverting to light.
func Resolve(explicit Theme, inherit bool, ambient *Scope) Resolution {
	ambientTheme, hasAmbient := ambient.current()

	if inherit && hasAmbient {
		return Resolution{Theme: ambientTheme, Source: SourceInherited}
	}
	if explicit.Valid() {
		return Resolution{Theme: explicit, Source: SourceExplicit}
	}
	if hasAmbient {
		return Resolution{Theme: ambientTheme, Source: SourceInherited}
	}
	return Resolution{Theme: Default, Source: SourceDefault}
}
