package render

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/commerce"
	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/registry/catalog"
	"github.com/jmylchreest/blockfront/internal/site"
	"github.com/jmylchreest/blockfront/internal/theme"
)

type fakeStore struct {
	products    map[string]*commerce.Product
	collections map[string]*commerce.Collection
}

func (s *fakeStore) Product(_ context.Context, handle, _ string) (*commerce.Product, error) {
	if p, ok := s.products[handle]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

func (s *fakeStore) Collection(_ context.Context, handle string, _ int, _ string) (*commerce.Collection, error) {
	if c, ok := s.collections[handle]; ok {
		return c, nil
	}
	return nil, errors.New("not found")
}

func newTestRenderer(t *testing.T, store Store) *Renderer {
	t.Helper()
	reg, err := catalog.NewRegistry(catalog.Options{})
	require.NoError(t, err)
	return NewRenderer(reg, store, nil)
}

func testSite(t *testing.T) *site.Site {
	t.Helper()
	s, err := site.New(config.SiteConfig{
		ID:            "still",
		Name:          "Still",
		Domains:       []string{"still.example"},
		BaseURL:       "https://still.example",
		Locales:       []string{"en", "de"},
		DefaultLocale: "en",
		BaseTheme:     "dark",
	})
	require.NoError(t, err)
	return s
}

func block(id, name string, opts map[string]any, children ...cms.Block) cms.Block {
	return cms.Block{
		ID:        id,
		Component: &cms.BlockComponent{Name: name, Options: opts},
		Children:  children,
	}
}

func renderNodes(t *testing.T, nodes []*html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	for _, n := range nodes {
		require.NoError(t, html.Render(&buf, n))
	}
	return buf.String()
}

// traced renders blocks and records how each themed block was applied.
func traced(t *testing.T, r *Renderer, scope *theme.Scope, blocks ...cms.Block) (string, map[string]theme.Applied) {
	t.Helper()
	seen := make(map[string]theme.Applied)
	c := r.NewContext(context.Background(), scope, nil, "en", "/")
	c.Trace = func(b cms.Block, a theme.Applied) { seen[b.ID] = a }
	return renderNodes(t, c.Blocks(blocks)), seen
}

func TestProviderWrapsInheritingButton(t *testing.T) {
	r := newTestRenderer(t, nil)

	out, seen := traced(t, r, nil,
		block("provider", ProviderComponent, map[string]any{"theme": "dark", "inheritTheme": false},
			block("button", "Button", map[string]any{"text": "Go", "href": "/go"}),
		),
	)

	require.Contains(t, seen, "button")
	assert.Equal(t, theme.Dark, seen["button"].Resolution.Theme)
	assert.Equal(t, theme.SourceInherited, seen["button"].Resolution.Source)
	assert.False(t, seen["button"].Boundary)

	assert.Equal(t, theme.Dark, seen["provider"].Resolution.Theme)
	assert.True(t, seen["provider"].Boundary)

	assert.Contains(t, out, `<div class="bf-theme-provider" data-theme="dark">`)
	assert.Contains(t, out, `<a href="/go" class="bf-button bf-button-primary bf-size-md">Go</a>`)
	assert.Equal(t, 1, strings.Count(out, "data-theme="))
}

func TestNestedProvidersInherit(t *testing.T) {
	r := newTestRenderer(t, nil)

	out, seen := traced(t, r, nil,
		block("outer", ProviderComponent, map[string]any{"theme": "accent"},
			block("inner", ProviderComponent, map[string]any{"inheritTheme": true},
				block("grandchild", "Heading", map[string]any{"text": "Hi", "inheritTheme": true}),
			),
		),
	)

	assert.Equal(t, theme.Accent, seen["outer"].Resolution.Theme)
	assert.Equal(t, theme.Accent, seen["inner"].Resolution.Theme)
	assert.Equal(t, theme.Accent, seen["grandchild"].Resolution.Theme)
	assert.Equal(t, 2, seen["inner"].Scope.Depth())
	assert.Equal(t, 2, strings.Count(out, `data-theme="accent"`))
}

func TestProviderWithoutAmbientDefaults(t *testing.T) {
	r := newTestRenderer(t, nil)

	out, seen := traced(t, r, nil, block("p", ProviderComponent, nil))

	assert.Equal(t, theme.Light, seen["p"].Resolution.Theme)
	assert.Equal(t, theme.SourceDefault, seen["p"].Resolution.Source)
	assert.Contains(t, out, `data-theme="light"`)
}

func TestComponentWrappingRule(t *testing.T) {
	r := newTestRenderer(t, nil)
	root := theme.Root(theme.Light)

	tests := []struct {
		name         string
		block        cms.Block
		scope        *theme.Scope
		wantTheme    theme.Theme
		wantBoundary bool
	}{
		{
			name:         "explicit theme without inherit opens a scope",
			block:        block("b", "Hero", map[string]any{"title": "T", "theme": "dark"}),
			scope:        root,
			wantTheme:    theme.Dark,
			wantBoundary: true,
		},
		{
			name:      "inherit wins over explicit theme",
			block:     block("b", "Button", map[string]any{"text": "x", "theme": "dark"}),
			scope:     theme.Root(theme.Accent),
			wantTheme: theme.Accent,
		},
		{
			name:         "button opting out of inherit",
			block:        block("b", "Button", map[string]any{"text": "x", "theme": "dark", "inheritTheme": false}),
			scope:        theme.Root(theme.Accent),
			wantTheme:    theme.Dark,
			wantBoundary: true,
		},
		{
			name:      "unknown theme counts as unset",
			block:     block("b", "Hero", map[string]any{"title": "T", "theme": "neon"}),
			scope:     theme.Root(theme.Dark),
			wantTheme: theme.Dark,
		},
		{
			name:      "no theme and no ambient falls back to light",
			block:     block("b", "Hero", map[string]any{"title": "T"}),
			wantTheme: theme.Light,
		},
		{
			name:      "ambient applies without inherit",
			block:     block("b", "Hero", map[string]any{"title": "T"}),
			scope:     theme.Root(theme.Gradient),
			wantTheme: theme.Gradient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, seen := traced(t, r, tt.scope, tt.block)
			require.Contains(t, seen, "b")
			assert.Equal(t, tt.wantTheme, seen["b"].Resolution.Theme)
			assert.Equal(t, tt.wantBoundary, seen["b"].Boundary)
			if tt.wantBoundary {
				assert.Contains(t, out, `data-theme="`+string(tt.wantTheme)+`"`)
			} else {
				assert.NotContains(t, out, "data-theme")
			}
		})
	}
}

func TestUnknownComponentPassesThrough(t *testing.T) {
	r := newTestRenderer(t, nil)
	c := r.NewContext(context.Background(), nil, nil, "en", "/")

	out := renderNodes(t, c.Blocks([]cms.Block{
		block("m", "Mystery", map[string]any{"x": 1}, block("b", "Badge", map[string]any{"text": "New"})),
	}))

	assert.Equal(t, `<div data-component="Mystery"><span class="bf-badge">New</span></div>`, out)
}

func TestPlainElements(t *testing.T) {
	r := newTestRenderer(t, nil)
	c := r.NewContext(context.Background(), nil, nil, "en", "/")

	out := renderNodes(t, c.Blocks([]cms.Block{
		{TagName: "section", Children: []cms.Block{{TagName: "script"}}},
	}))

	assert.Equal(t, `<section><div></div></section>`, out)
}

func TestResponsiveStyles(t *testing.T) {
	r := newTestRenderer(t, nil)
	c := r.NewContext(context.Background(), nil, nil, "en", "/")

	out := renderNodes(t, c.Blocks([]cms.Block{{
		ID:      "abc",
		TagName: "div",
		ResponsiveStyles: map[string]map[string]string{
			"large": {"paddingTop": "8px", "marginBottom": "4px", "color": "red;}"},
			"small": {"display": "none"},
		},
	}}))

	assert.Equal(t, `<div style="margin-bottom:4px;padding-top:8px" class="b-abc"></div>`, out)
	assert.Equal(t, "@media (max-width: 639px) { .b-abc { display:none } }\n", c.page.css.String())
}

func TestDeclarations(t *testing.T) {
	tests := []struct {
		name   string
		styles map[string]string
		want   string
	}{
		{"camel case", map[string]string{"fontSize": "12px", "color": "red"}, "color:red;font-size:12px"},
		{"value closing the rule", map[string]string{"color": "red}"}, ""},
		{"key closing the element", map[string]string{"x</style><script>": "red"}, ""},
		{"key with a colon", map[string]string{"color:red;background": "url(x)"}, ""},
		{"empty key", map[string]string{"": "red"}, ""},
		{"custom hyphenated key", map[string]string{"-webkit-box": "1"}, "-webkit-box:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, declarations(tt.styles))
		})
	}
}

func TestProductTile(t *testing.T) {
	store := &fakeStore{products: map[string]*commerce.Product{
		"mat": {
			Handle:           "mat",
			Title:            "Cork mat",
			AvailableForSale: true,
			FeaturedImage:    &commerce.Image{URL: "https://cdn.example/mat.jpg"},
			PriceRange: commerce.PriceRange{
				MinVariantPrice: commerce.Money{Amount: "10.0", CurrencyCode: "EUR"},
				MaxVariantPrice: commerce.Money{Amount: "20.0", CurrencyCode: "EUR"},
			},
		},
	}}
	r := newTestRenderer(t, store)
	c := r.NewContext(context.Background(), nil, testSite(t), "de", "/")

	out := renderNodes(t, c.Blocks([]cms.Block{block("t", "ProductTile", map[string]any{"handle": "mat"})}))
	assert.Contains(t, out, `href="/de/products/mat"`)
	assert.Contains(t, out, `alt="Cork mat"`)
	assert.Contains(t, out, "From 10.00 EUR")
	assert.Contains(t, out, ">View<")

	missing := c.Blocks([]cms.Block{block("t", "ProductTile", map[string]any{"handle": "gone"})})
	assert.Empty(t, missing)
}

func TestLocaleSwitcherAndBreadcrumbs(t *testing.T) {
	r := newTestRenderer(t, nil)
	c := r.NewContext(context.Background(), nil, testSite(t), "de", "/yoga-retreats/summer")

	out := renderNodes(t, c.Blocks([]cms.Block{
		block("l", "LocaleSwitcher", nil),
		block("b", "Breadcrumbs", nil),
	}))

	assert.Contains(t, out, `<a href="/yoga-retreats/summer" hreflang="en" lang="en">English</a>`)
	assert.Contains(t, out, `<a href="/de/yoga-retreats/summer" hreflang="de" lang="de" aria-current="true">Deutsch</a>`)
	assert.Contains(t, out, `<a href="https://still.example/de">Home</a>`)
	assert.Contains(t, out, `>Yoga Retreats</a>`)
	assert.Contains(t, out, `<span aria-current="page">Summer</span>`)
	require.Len(t, c.Schemas(), 1)
	assert.Equal(t, "BreadcrumbList", c.Schemas()[0]["@type"])
}

func TestUnsafeLinksAreNeutralised(t *testing.T) {
	r := newTestRenderer(t, nil)
	c := r.NewContext(context.Background(), nil, nil, "en", "/")

	out := renderNodes(t, c.Blocks([]cms.Block{
		block("b", "Button", map[string]any{"text": "x", "href": "javascript:alert(1)"}),
	}))
	assert.Contains(t, out, `href="#"`)
}

func TestDesignKitShowsEveryTheme(t *testing.T) {
	r := newTestRenderer(t, nil)
	c := r.NewContext(context.Background(), theme.Root(theme.Light), nil, "en", "/")

	out := renderNodes(t, c.Blocks([]cms.Block{block("k", "DesignKitOverview", nil)}))
	for _, th := range theme.All() {
		assert.Contains(t, out, `data-theme="`+string(th)+`"`)
	}
	assert.Equal(t, len(theme.All()), strings.Count(out, "data-theme="))
}
