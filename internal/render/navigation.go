package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/registry"
	"github.com/jmylchreest/blockfront/internal/seo"
)

func registerNavigation(r *Renderer) {
	r.Register("Header", renderHeader)
	r.Register("NavigationMenu", renderNavMenu)
	r.Register("NavigationItem", renderNavItem)
	r.Register("Footer", renderFooter)
	r.Register("FooterColumn", renderFooterColumn)
	r.Register("Breadcrumbs", renderBreadcrumbs)
	r.Register("LocaleSwitcher", renderLocaleSwitcher)
}

func renderHeader(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Header, "class", classes("bf-header", when(v.Bool("sticky"), "bf-sticky"), when(v.Bool("transparentOnTop"), "bf-transparent")))
	n.AppendChild(logoLink(c, v.String("logo"), v.String("logoAlt")))
	return []*html.Node{appendAll(n, c.Blocks(b.Children)...)}
}

// logoLink links home with the logo image, or the site name without one.
func logoLink(c *Context, logo, alt string) *html.Node {
	a := elem(atom.A, "class", "bf-logo", "href", c.Href("/"))
	name := ""
	if c.Site != nil {
		name = c.Site.Name
	}
	if src := safeURL(logo); src != "" {
		if alt == "" {
			alt = name
		}
		a.AppendChild(elem(atom.Img, "src", src, "alt", alt))
		return a
	}
	a.AppendChild(text(name))
	return a
}

func renderNavMenu(c *Context, b cms.Block, _ registry.Values) []*html.Node {
	nav := elem(atom.Nav, "class", "bf-nav", "aria-label", "Main")
	ul := elem(atom.Ul)
	appendAll(ul, c.Blocks(b.Children)...)
	nav.AppendChild(ul)
	return []*html.Node{nav}
}

func renderNavItem(c *Context, b cms.Block, v registry.Values) []*html.Node {
	li := elem(atom.Li, "class", "bf-nav-item")
	href := c.Href(v.String("href"))
	a := link(atom.A, href, v.Bool("openInNewTab"))
	a.AppendChild(text(v.String("label")))
	if c.current(href) {
		setAttr(a, "aria-current", "page")
	}
	li.AppendChild(a)

	sub := elem(atom.Ul, "class", "bf-submenu")
	for _, item := range list(v, "children") {
		subHref := c.Href(item.String("href"))
		subLi := elem(atom.Li)
		subA := elem(atom.A, "href", subHref)
		subA.AppendChild(text(item.String("label")))
		if c.current(subHref) {
			setAttr(subA, "aria-current", "page")
		}
		sub.AppendChild(appendAll(subLi, subA))
	}
	appendAll(sub, c.Blocks(b.Children)...)
	if sub.FirstChild != nil {
		addClass(li, "bf-has-submenu")
		li.AppendChild(sub)
	}
	return []*html.Node{li}
}

// current reports whether href points at the page being rendered.
func (c *Context) current(href string) bool {
	if c.Site == nil || href == "" {
		return false
	}
	return href == c.Site.Path(c.Locale, c.Path)
}

// NavLinks renders CMS navigation links as a menu. It is used when a site has
// no header blocks.
func (c *Context) NavLinks(links []cms.Link) *html.Node {
	if len(links) == 0 {
		return nil
	}
	nav := elem(atom.Nav, "class", "bf-nav", "aria-label", "Main")
	nav.AppendChild(c.linkList(links))
	return nav
}

func (c *Context) linkList(links []cms.Link) *html.Node {
	ul := elem(atom.Ul)
	for _, l := range links {
		li := elem(atom.Li, "class", "bf-nav-item")
		href := c.Href(l.URL)
		a := elem(atom.A, "href", href)
		a.AppendChild(text(l.Text))
		if c.current(href) {
			setAttr(a, "aria-current", "page")
		}
		li.AppendChild(a)
		if len(l.Children) > 0 {
			sub := c.linkList(l.Children)
			setAttr(sub, "class", "bf-submenu")
			li.AppendChild(sub)
		}
		ul.AppendChild(li)
	}
	return ul
}

func renderFooter(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Footer, "class", "bf-footer")
	cols := elem(atom.Div, "class", "bf-footer-columns")
	appendAll(cols, c.Blocks(b.Children)...)
	if cols.FirstChild != nil {
		n.AppendChild(cols)
	}
	if social := list(v, "social"); len(social) > 0 {
		ul := elem(atom.Ul, "class", "bf-social")
		for _, s := range social {
			href := safeURL(s.String("url"))
			if href == "" {
				continue
			}
			network := s.String("network")
			a := link(atom.A, href, true, "class", "bf-social-"+network, "aria-label", network)
			a.AppendChild(text(network))
			ul.AppendChild(appendAll(elem(atom.Li), a))
		}
		n.AppendChild(ul)
	}
	copyright := v.String("copyright")
	if copyright == "" && c.Site != nil {
		copyright = "© " + c.Site.Name
	}
	appendAll(n, textElem(atom.P, copyright, "class", "bf-copyright"))
	return []*html.Node{n}
}

func renderFooterColumn(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Div, "class", "bf-footer-column")
	appendAll(n, textElem(atom.H4, v.String("title")))
	if links := list(v, "links"); len(links) > 0 {
		ul := elem(atom.Ul)
		for _, l := range links {
			a := elem(atom.A, "href", c.Href(l.String("href")))
			a.AppendChild(text(l.String("label")))
			ul.AppendChild(appendAll(elem(atom.Li), a))
		}
		n.AppendChild(ul)
	}
	return []*html.Node{appendAll(n, c.Blocks(b.Children)...)}
}

// Crumbs derives breadcrumbs from the page path. Segment names are title
// cased with dashes as spaces.
func (c *Context) Crumbs(includeHome bool) []seo.Crumb {
	var out []seo.Crumb
	url := func(p string) string {
		if c.Site == nil {
			return p
		}
		return c.Site.URL(c.Locale, p)
	}
	if includeHome {
		out = append(out, seo.Crumb{Name: "Home", URL: url("/")})
	}
	caser := cases.Title(localeTag(c.Locale))
	path := ""
	for seg := range strings.SplitSeq(strings.Trim(c.Path, "/"), "/") {
		if seg == "" {
			continue
		}
		path += "/" + seg
		out = append(out, seo.Crumb{Name: caser.String(strings.ReplaceAll(seg, "-", " ")), URL: url(path)})
	}
	return out
}

func renderBreadcrumbs(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	crumbs := c.Crumbs(v.Bool("includeHome"))
	if len(crumbs) == 0 {
		return nil
	}
	if v.Bool("emitSchema") {
		c.AddSchema(seo.BreadcrumbListSchema(crumbs))
	}
	nav := elem(atom.Nav, "class", "bf-breadcrumbs", "aria-label", "Breadcrumb")
	ol := elem(atom.Ol)
	for i, crumb := range crumbs {
		li := elem(atom.Li)
		if i == len(crumbs)-1 {
			li.AppendChild(textElem(atom.Span, crumb.Name, "aria-current", "page"))
		} else {
			a := elem(atom.A, "href", crumb.URL)
			a.AppendChild(text(crumb.Name))
			li.AppendChild(a)
		}
		ol.AppendChild(li)
	}
	nav.AppendChild(ol)
	return []*html.Node{nav}
}

func renderLocaleSwitcher(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	if c.Site == nil || len(c.Site.Locales) < 2 {
		return nil
	}
	nav := elem(atom.Nav, "class", "bf-locales", "aria-label", "Language")
	ul := elem(atom.Ul)
	for _, l := range c.Site.Locales {
		label := l
		if v.String("display") == "name" {
			label = localeName(l)
		}
		a := elem(atom.A, "href", c.Site.Path(l, c.Path), "hreflang", l, "lang", l)
		a.AppendChild(text(label))
		if l == c.Locale {
			setAttr(a, "aria-current", "true")
		}
		ul.AppendChild(appendAll(elem(atom.Li), a))
	}
	nav.AppendChild(ul)
	return []*html.Node{nav}
}

func localeTag(l string) language.Tag {
	tag, err := language.Parse(l)
	if err != nil {
		return language.Und
	}
	return tag
}

// localeName returns the locale's name in its own language, falling back to
// the code.
func localeName(l string) string {
	tag := localeTag(l)
	if tag == language.Und {
		return l
	}
	name := display.Self.Name(tag)
	if name == "" {
		return l
	}
	return cases.Title(tag).String(name)
}
