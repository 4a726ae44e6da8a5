package theme

// Scope is the ambient theme published by a provider to its descendants.
// A Scope is never mutated; nesting a provider creates a child scope. The nil
// *Scope is valid and means "no provider encloses this point".
type Scope struct {
	theme       Theme
	parentTheme Theme
	parent      *Scope
}

// Provide opens a new scope below ambient. The scope's theme is resolved from
// the requested theme and inherit flag against ambient, and ParentTheme keeps the
// theme as requested before resolution.
func Provide(ambient *Scope, requested Theme, inherit bool) *Scope {
	resolved := Resolve(requested, inherit, ambient)
	if !requested.Valid() {
		requested = ""
	}
	return &Scope{
		theme:       resolved.Theme,
		parentTheme: requested,
		parent:      ambient,
	}
}

// Root opens an outermost scope with an explicit theme.
func Root(t Theme) *Scope {
	return Provide(nil, t, false)
}

func (s *Scope) current() (Theme, bool) {
	if s == nil || !s.theme.Valid() {
		return "", false
	}
	return s.theme, true
}

// Theme returns the resolved theme of the scope, or Default for a nil scope.
func (s *Scope) Theme() Theme {
	if t, ok := s.current(); ok {
		return t
	}
	return Default
}

// ParentTheme returns the theme the provider was given, if any.
func (s *Scope) ParentTheme() (Theme, bool) {
	if s == nil || s.parentTheme == "" {
		return "", false
	}
	return s.parentTheme, true
}

// Parent returns the enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}
	return s.parent
}

// Depth counts the providers between this scope and the root, inclusive.
func (s *Scope) Depth() int {
	n := 0
	for cur := s; cur != nil; cur = cur.parent {
		n++
	}
	return n
}

// Marker is the key/value pair a scope boundary attaches to its element.
type Marker struct {
	Key   string
	Value string
}

// Marker returns the styling marker for this scope.
func (s *Scope) Marker() Marker {
	return Marker{Key: MarkerAttribute, Value: string(s.Theme())}
}
