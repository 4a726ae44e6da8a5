package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blockfront/internal/registry"
	"github.com/jmylchreest/blockfront/internal/registry/catalog"
)

func setupThemeService(t *testing.T) *ThemeService {
	t.Helper()
	reg, err := catalog.NewRegistry(catalog.Options{})
	require.NoError(t, err)
	return NewThemeService(reg)
}

func boolPtr(b bool) *bool { return &b }

func TestThemeService_Stylesheet(t *testing.T) {
	svc := setupThemeService(t)

	css, etag, err := svc.Stylesheet()
	require.NoError(t, err)
	out := string(css)

	assert.Contains(t, out, `[data-theme="light"] {`)
	assert.Contains(t, out, "--theme-background: #1c1b22;")
	assert.Contains(t, out, ".bf-button-primary")
	assert.Less(t, strings.Index(out, `[data-theme="dark"]`), strings.Index(out, ".bf-header"), "palettes come first")
	assert.Regexp(t, `^"[0-9a-f]{16}"$`, etag)

	again, etag2, err := svc.Stylesheet()
	require.NoError(t, err)
	assert.Equal(t, etag, etag2)
	assert.Equal(t, css, again)
}

func TestThemeService_StylesheetWithoutTokens(t *testing.T) {
	svc := NewThemeService(registry.New())

	css, _, err := svc.Stylesheet()
	require.NoError(t, err)
	assert.NotContains(t, string(css), "[data-theme=")
	assert.Contains(t, string(css), ".bf-button")
}

func TestThemeService_ListThemes(t *testing.T) {
	resp := setupThemeService(t).ListThemes()

	assert.Equal(t, "light", resp.Default)
	require.Len(t, resp.Themes, 6)

	byID := make(map[string]int)
	for i, th := range resp.Themes {
		byID[th.ID] = i
	}
	dark := resp.Themes[byID["dark"]]
	assert.True(t, dark.Dark)
	assert.Equal(t, "#1c1b22", dark.Palette["background"])

	tl := resp.Themes[byID["transparent-light"]]
	assert.Equal(t, "Transparent Light", tl.Name)
	assert.False(t, tl.Dark)
}

func TestThemeService_Resolve(t *testing.T) {
	svc := setupThemeService(t)

	tests := []struct {
		name     string
		req      ResolveRequest
		theme    string
		source   string
		boundary bool
	}{
		{
			name:   "nothing supplied",
			req:    ResolveRequest{},
			theme:  "light",
			source: "default",
		},
		{
			name:     "explicit without provider",
			req:      ResolveRequest{Theme: "dark"},
			theme:    "dark",
			source:   "explicit",
			boundary: true,
		},
		{
			name:   "inherit wins over explicit",
			req:    ResolveRequest{Theme: "accent", InheritTheme: boolPtr(true), Ambient: []string{"dark"}},
			theme:  "dark",
			source: "inherited",
		},
		{
			name:   "ambient fallback",
			req:    ResolveRequest{Ambient: []string{"light", "gradient"}},
			theme:  "gradient",
			source: "inherited",
		},
		{
			name:   "button inherits by default",
			req:    ResolveRequest{Component: "Button", Theme: "accent", Ambient: []string{"dark"}},
			theme:  "dark",
			source: "inherited",
		},
		{
			name:     "section wraps itself by default",
			req:      ResolveRequest{Component: "Section", Theme: "accent", Ambient: []string{"dark"}},
			theme:    "accent",
			source:   "explicit",
			boundary: true,
		},
		{
			name:   "unknown explicit theme counts as absent",
			req:    ResolveRequest{Theme: "neon", Ambient: []string{"dark"}},
			theme:  "dark",
			source: "inherited",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Resolve(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.theme, got.Theme)
			assert.Equal(t, tt.source, got.Source)
			assert.Equal(t, tt.boundary, got.Boundary)
		})
	}
}

func TestThemeService_ResolveErrors(t *testing.T) {
	svc := setupThemeService(t)

	_, err := svc.Resolve(ResolveRequest{Component: "Nope"})
	assert.ErrorIs(t, err, registry.ErrUnknownComponent)

	_, err = svc.Resolve(ResolveRequest{Component: "Spacer"})
	assert.ErrorIs(t, err, ErrNotThemeable)

	_, err = svc.Resolve(ResolveRequest{Ambient: []string{"neon"}})
	assert.Error(t, err)
}
