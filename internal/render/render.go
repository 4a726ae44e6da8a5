// Package render turns CMS block trees into HTML. Theme scopes are threaded
// through the render pass explicitly: every block renders in the scope its
// nearest provider opened.
package render

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/commerce"
	"github.com/jmylchreest/blockfront/internal/registry"
	"github.com/jmylchreest/blockfront/internal/seo"
	"github.com/jmylchreest/blockfront/internal/site"
	"github.com/jmylchreest/blockfront/internal/theme"
)

// ProviderComponent is the name of the explicit theme wrapper component.
const ProviderComponent = "ThemeProvider"

// RenderFunc renders one component block. Values already carry the
// component defaults.
type RenderFunc func(c *Context, b cms.Block, v registry.Values) []*html.Node

// Store supplies commerce data to data-bound components.
type Store interface {
	Product(ctx context.Context, handle, locale string) (*commerce.Product, error)
	Collection(ctx context.Context, handle string, first int, locale string) (*commerce.Collection, error)
}

// Renderer maps component names to render functions.
type Renderer struct {
	registry *registry.Registry
	store    Store
	logger   *slog.Logger

	mu    sync.RWMutex
	funcs map[string]RenderFunc
}

// NewRenderer returns a renderer with the built-in component set. store may
// be nil, in which case data-bound components render nothing.
func NewRenderer(reg *registry.Registry, store Store, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		registry: reg,
		store:    store,
		logger:   logger.With(slog.String("component", "render")),
		funcs:    make(map[string]RenderFunc),
	}
	registerLayout(r)
	registerUI(r)
	registerCTA(r)
	registerNavigation(r)
	registerSEO(r)
	return r
}

// Register sets the render function for a component name, replacing any
// existing one.
func (r *Renderer) Register(name string, fn RenderFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

func (r *Renderer) lookup(name string) (RenderFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Context is the state of one render pass at one point in the tree. A child
// context differs from its parent only in Scope.
type Context struct {
	Ctx    context.Context
	Scope  *theme.Scope
	Site   *site.Site
	Locale string
	// Path is the request path without the locale prefix.
	Path string

	// Trace, when set, observes every themed block as it is rendered.
	Trace func(b cms.Block, applied theme.Applied)

	r    *Renderer
	page *pageState
}

// pageState collects document-level output produced while rendering blocks.
type pageState struct {
	mu      sync.Mutex
	schemas []seo.Schema
	meta    metaOverride
	css     strings.Builder
}

type metaOverride struct {
	title       string
	description string
	image       string
	noIndex     bool
}

// NewContext starts a render pass rooted at scope.
func (r *Renderer) NewContext(ctx context.Context, scope *theme.Scope, s *site.Site, locale, path string) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Ctx:    ctx,
		Scope:  scope,
		Site:   s,
		Locale: locale,
		Path:   path,
		r:      r,
		page:   &pageState{},
	}
}

func (c *Context) with(scope *theme.Scope) *Context {
	child := *c
	child.Scope = scope
	return &child
}

// Logger returns the renderer's logger.
func (c *Context) Logger() *slog.Logger {
	return c.r.logger
}

// AddSchema queues a JSON-LD object for the document head.
func (c *Context) AddSchema(s seo.Schema) {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()
	c.page.schemas = append(c.page.schemas, s)
}

// Schemas returns the JSON-LD objects queued so far.
func (c *Context) Schemas() []seo.Schema {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()
	return append([]seo.Schema(nil), c.page.schemas...)
}

// Href localizes site-relative links and neutralises unsafe schemes.
func (c *Context) Href(raw string) string {
	u := safeURL(raw)
	if c.Site != nil && strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") {
		return c.Site.Path(c.Locale, u)
	}
	return u
}

// Blocks renders a list of blocks in this context's scope.
func (c *Context) Blocks(blocks []cms.Block) []*html.Node {
	var out []*html.Node
	for _, b := range blocks {
		out = append(out, c.Block(b)...)
	}
	return out
}

// Block renders a single block. Plain elements keep their tag, registered
// components go through the theme wrapping rule, and unknown components pass
// their children through a marked div.
func (c *Context) Block(b cms.Block) []*html.Node {
	name := b.Name()
	if name == "" {
		tag := b.TagName
		if tag == "" {
			tag = "div"
		}
		n := elemTag(tag)
		appendAll(n, c.Blocks(b.Children)...)
		return c.styled(b, []*html.Node{n})
	}

	comp, registered := c.r.registry.Lookup(name)
	fn, ok := c.r.lookup(name)
	if !ok {
		n := elem(atom.Div, "data-component", name)
		appendAll(n, c.Blocks(b.Children)...)
		return c.styled(b, []*html.Node{n})
	}

	values := registry.Values(b.Options())
	if registered {
		values = comp.WithDefaults(values)
	}
	if !registered || !comp.Themeable {
		return c.styled(b, fn(c, b, values))
	}

	props := propsOf(values)
	var applied theme.Applied
	if name == ProviderComponent {
		scope := theme.Provide(c.Scope, props.Theme, props.Inherit(comp.InheritThemeDefault))
		applied = theme.Applied{
			Scope:      scope,
			Resolution: theme.Resolution{Theme: scope.Theme(), Source: sourceOf(props, comp, c.Scope)},
			Boundary:   true,
		}
	} else {
		applied = theme.Apply(c.Scope, props, comp.InheritThemeDefault)
	}
	if c.Trace != nil {
		c.Trace(b, applied)
	}

	out := c.styled(b, fn(c.with(applied.Scope), b, values))
	if applied.Boundary {
		out = stampBoundary(out, applied.Scope.Marker())
	}
	return out
}

// sourceOf reports where a provider's theme came from, for tracing.
func sourceOf(p theme.Props, comp registry.Component, ambient *theme.Scope) theme.Source {
	return theme.Resolve(p.Theme, p.Inherit(comp.InheritThemeDefault), ambient).Source
}

// propsOf reads the theming inputs. An unrecognised theme counts as unset.
func propsOf(v registry.Values) theme.Props {
	var p theme.Props
	if t, err := theme.Parse(v.String("theme")); err == nil {
		p.Theme = t
	}
	if b, ok := v.Get("inheritTheme").(bool); ok {
		p.InheritTheme = &b
	}
	return p
}

// stampBoundary attaches the marker to the single root element, or wraps
// several roots in one marked element.
func stampBoundary(nodes []*html.Node, m theme.Marker) []*html.Node {
	var roots []*html.Node
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			roots = append(roots, n)
		}
	}
	if len(roots) == 1 && len(nodes) == 1 {
		setAttr(roots[0], m.Key, m.Value)
		return nodes
	}
	wrap := elem(atom.Div, "class", "bf-theme-scope", m.Key, m.Value)
	appendAll(wrap, nodes...)
	return []*html.Node{wrap}
}

var breakpoints = []struct {
	name  string
	query string
}{
	{"medium", "(max-width: 991px)"},
	{"small", "(max-width: 639px)"},
}

// styled applies a block's responsive styles. Large styles are inlined on
// the root element and smaller breakpoints become media rules keyed by the
// block ID.
func (c *Context) styled(b cms.Block, nodes []*html.Node) []*html.Node {
	if len(b.ResponsiveStyles) == 0 || len(nodes) == 0 || nodes[0].Type != html.ElementNode {
		return nodes
	}
	root := nodes[0]
	if large := b.ResponsiveStyles["large"]; len(large) > 0 {
		style := declarations(large)
		if existing, ok := getAttr(root, "style"); ok && existing != "" {
			style = existing + ";" + style
		}
		setAttr(root, "style", style)
	}
	if b.ID == "" {
		return nodes
	}
	class := "b-" + cssClass(b.ID)
	hasRule := false
	c.page.mu.Lock()
	for _, bp := range breakpoints {
		if styles := b.ResponsiveStyles[bp.name]; len(styles) > 0 {
			hasRule = true
			c.page.css.WriteString("@media " + bp.query + " { ." + class + " { " + declarations(styles) + " } }\n")
		}
	}
	c.page.mu.Unlock()
	if hasRule {
		addClass(root, class)
	}
	return nodes
}

// declarations renders camelCase style keys as CSS declarations in a stable
// order. Keys must be plain property names; anything else is dropped along
// with values that could end the declaration or the style element.
func declarations(styles map[string]string) string {
	keys := make([]string, 0, len(styles))
	for k := range styles {
		if propertyName(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := styles[k]
		if strings.ContainsAny(v, ";{}<>") {
			continue
		}
		parts = append(parts, kebab(k)+":"+v)
	}
	return strings.Join(parts, ";")
}

// propertyName reports whether k consists only of ASCII letters and hyphens.
func propertyName(k string) bool {
	if k == "" {
		return false
	}
	for i := 0; i < len(k); i++ {
		c := k[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && c != '-' {
			return false
		}
	}
	return true
}

func kebab(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func cssClass(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
