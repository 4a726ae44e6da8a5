package render

import (
	"sort"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/registry"
	"github.com/jmylchreest/blockfront/internal/seo"
	"github.com/jmylchreest/blockfront/internal/theme"
)

// Schema components only queue structured data and meta overrides; they
// have no visible output.
func registerSEO(r *Renderer) {
	r.Register("OrganizationSchema", renderOrganizationSchema)
	r.Register("ProductSchema", renderProductSchema)
	r.Register("ArticleSchema", renderArticleSchema)
	r.Register("FAQSchema", renderFAQSchema)
	r.Register("BreadcrumbSchema", renderBreadcrumbSchema)
	r.Register("EventSchema", renderEventSchema)
	r.Register("VideoSchema", renderVideoSchema)
	r.Register("MetaTags", renderMetaTags)
	r.Register("DesignKitOverview", renderDesignKit)
}

func (c *Context) absolute(p string) string {
	if c.Site == nil {
		return p
	}
	return c.Site.URL(c.Locale, p)
}

// organization is the site's publisher, or nil when none is configured.
func (c *Context) organization() *seo.Organization {
	if c.Site == nil || c.Site.Organization.Name == "" {
		return nil
	}
	org := c.Site.Organization
	if org.URL == "" {
		org.URL = c.Site.BaseURL
	}
	return &org
}

func renderOrganizationSchema(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	org := seo.Organization{Name: v.String("name"), Logo: safeURL(v.String("logo"))}
	if c.Site != nil {
		org.URL = c.Site.BaseURL
	}
	for _, s := range list(v, "sameAs") {
		if u := safeURL(s.String("url")); u != "" {
			org.SameAs = append(org.SameAs, u)
		}
	}
	c.AddSchema(seo.OrganizationSchema(org))
	return nil
}

func renderProductSchema(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	p := c.product(v.String("handle"))
	if p == nil {
		return nil
	}
	brand := ""
	if org := c.organization(); org != nil {
		brand = org.Name
	}
	c.AddSchema(seo.ProductSchema(p, c.absolute(ProductPath(p.Handle)), brand))
	return nil
}

func renderArticleSchema(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	c.AddSchema(seo.ArticleSchema(seo.Article{
		Headline:      v.String("headline"),
		Author:        v.String("author"),
		DatePublished: v.String("datePublished"),
		Image:         safeURL(v.String("image")),
		URL:           c.absolute(c.Path),
		Publisher:     c.organization(),
	}))
	return nil
}

func renderFAQSchema(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	var items []seo.QA
	for _, q := range list(v, "questions") {
		if q.String("question") == "" {
			continue
		}
		items = append(items, seo.QA{Question: q.String("question"), Answer: q.String("answer")})
	}
	if len(items) > 0 {
		c.AddSchema(seo.FAQPageSchema(items))
	}
	return nil
}

func renderBreadcrumbSchema(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	var crumbs []seo.Crumb
	for _, item := range list(v, "items") {
		u := safeURL(item.String("url"))
		if len(u) > 0 && u[0] == '/' {
			u = c.absolute(u)
		}
		crumbs = append(crumbs, seo.Crumb{Name: item.String("name"), URL: u})
	}
	if len(crumbs) > 0 {
		c.AddSchema(seo.BreadcrumbListSchema(crumbs))
	}
	return nil
}

func renderEventSchema(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	c.AddSchema(seo.EventSchema(seo.Event{
		Name:           v.String("name"),
		StartDate:      v.String("startDate"),
		EndDate:        v.String("endDate"),
		AttendanceMode: v.String("attendanceMode"),
		Location:       v.String("location"),
		URL:            safeURL(v.String("url")),
	}))
	return nil
}

func renderVideoSchema(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	c.AddSchema(seo.VideoObjectSchema(seo.Video{
		Name:        v.String("name"),
		Description: v.String("description"),
		YouTubeID:   v.String("youtubeId"),
		UploadDate:  v.String("uploadDate"),
	}))
	return nil
}

// renderMetaTags records head overrides. Later blocks win.
func renderMetaTags(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()
	m := &c.page.meta
	if t := v.String("title"); t != "" {
		m.title = t
	}
	if d := v.String("description"); d != "" {
		m.description = d
	}
	if img := safeURL(v.String("ogImage")); img != "" {
		m.image = img
	}
	m.noIndex = m.noIndex || v.Bool("noIndex")
	return nil
}

// renderDesignKit shows one swatch panel per theme, each in its own scope,
// listing the palette roles from the design tokens.
func renderDesignKit(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Div, "class", "bf-design-kit")
	tokens, _ := c.r.registry.DesignTokens()
	palettes := tokens.Palettes()
	for _, t := range theme.All() {
		scope := theme.Provide(c.Scope, t, false)
		m := scope.Marker()
		panel := elem(atom.Section, "class", "bf-kit-panel", m.Key, m.Value)
		panel.AppendChild(textElem(atom.H3, string(t)))
		if v.Bool("showTokens") && len(palettes[t]) > 0 {
			roles := make([]string, 0, len(palettes[t]))
			for role := range palettes[t] {
				roles = append(roles, role)
			}
			sort.Strings(roles)
			dl := elem(atom.Dl)
			for _, role := range roles {
				appendAll(dl,
					textElem(atom.Dt, role),
					textElem(atom.Dd, palettes[t][role], "style", "--swatch:var(--theme-"+role+")"),
				)
			}
			panel.AppendChild(dl)
		}
		for _, name := range []string{"primary", "secondary", "outline"} {
			btn := elem(atom.Span, "class", "bf-button bf-button-"+name)
			btn.AppendChild(text(name))
			panel.AppendChild(btn)
		}
		n.AppendChild(panel)
	}
	return []*html.Node{n}
}
