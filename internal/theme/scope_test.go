package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProvide(t *testing.T) {
	t.Run("records requested theme as parent theme", func(t *testing.T) {
		s := Provide(nil, Dark, false)
		assert.Equal(t, Dark, s.Theme())
		parent, ok := s.ParentTheme()
		assert.True(t, ok)
		assert.Equal(t, Dark, parent)
		assert.Equal(t, Marker{Key: "data-theme", Value: "dark"}, s.Marker())
	})

	t.Run("inheriting provider without theme has no parent theme", func(t *testing.T) {
		outer := Root(Accent)
		inner := Provide(outer, "", true)
		assert.Equal(t, Accent, inner.Theme())
		_, ok := inner.ParentTheme()
		assert.False(t, ok)
		assert.Same(t, outer, inner.Parent())
		assert.Equal(t, 2, inner.Depth())
	})

	t.Run("nested providers only expose the nearest", func(t *testing.T) {
		outer := Root(Dark)
		inner := Provide(outer, Gradient, false)
		assert.Equal(t, Gradient, inner.Theme())
		assert.Equal(t, Dark, outer.Theme(), "outer scope is never mutated")
	})

	t.Run("nil scope", func(t *testing.T) {
		var s *Scope
		assert.Equal(t, Light, s.Theme())
		assert.Nil(t, s.Parent())
		assert.Equal(t, 0, s.Depth())
		_, ok := s.ParentTheme()
		assert.False(t, ok)
	})
}

func TestApply(t *testing.T) {
	yes, no := true, false

	t.Run("explicit non-inheriting theme opens a boundary", func(t *testing.T) {
		ambient := Root(Light)
		got := Apply(ambient, Props{Theme: Dark, InheritTheme: &no}, true)
		assert.True(t, got.Boundary)
		assert.Equal(t, Dark, got.Resolution.Theme)
		assert.NotSame(t, ambient, got.Scope)
		assert.Same(t, ambient, got.Scope.Parent())
	})

	t.Run("component default decides when inherit unset", func(t *testing.T) {
		ambient := Root(Accent)
		got := Apply(ambient, Props{Theme: Dark}, true)
		assert.False(t, got.Boundary)
		assert.Equal(t, Accent, got.Resolution.Theme)
		assert.Same(t, ambient, got.Scope)

		got = Apply(ambient, Props{Theme: Dark}, false)
		assert.True(t, got.Boundary)
		assert.Equal(t, Dark, got.Resolution.Theme)
	})

	t.Run("no explicit theme never opens a boundary", func(t *testing.T) {
		ambient := Root(TransparentLight)
		got := Apply(ambient, Props{InheritTheme: &no}, false)
		assert.False(t, got.Boundary)
		assert.Equal(t, TransparentLight, got.Resolution.Theme)
	})

	t.Run("inherit with explicit theme and no ambient", func(t *testing.T) {
		got := Apply(nil, Props{Theme: Gradient, InheritTheme: &yes}, false)
		assert.False(t, got.Boundary)
		assert.Equal(t, Gradient, got.Resolution.Theme)
	})
}

// Provider(dark, inherit=false) > Button(no theme, inherit default true).
func TestScenario_ButtonInsideDarkProvider(t *testing.T) {
	provider := Provide(nil, Dark, false)
	button := Apply(provider, Props{}, true)
	assert.Equal(t, Dark, button.Resolution.Theme)
	assert.False(t, button.Boundary)
}

// Provider(accent) > Provider(inherit) > grandchild(inherit).
func TestScenario_NestedInheritingProviders(t *testing.T) {
	outer := Provide(nil, Accent, false)
	inner := Provide(outer, "", true)
	assert.Equal(t, Accent, inner.Theme())

	grandchild := Apply(inner, Props{}, true)
	assert.Equal(t, Accent, grandchild.Resolution.Theme)
}

func TestStylesheet(t *testing.T) {
	css := string(Stylesheet(map[Theme]Palette{
		Dark:   {"foreground": "#fff", "background": "#000"},
		Light:  {"Primary Color": "#123"},
		Accent: {},
	}))

	assert.Equal(t,
		"[data-theme=\"light\"] {\n  --theme-primary-color: #123;\n}\n"+
			"[data-theme=\"dark\"] {\n  --theme-background: #000;\n  --theme-foreground: #fff;\n}\n",
		css,
	)
}
