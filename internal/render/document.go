package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/commerce"
	"github.com/jmylchreest/blockfront/internal/seo"
	"github.com/jmylchreest/blockfront/internal/site"
	"github.com/jmylchreest/blockfront/internal/theme"
)

// Kind selects the main template of a document.
type Kind int

const (
	KindPage Kind = iota
	KindArticle
	KindProduct
	KindCollection
	KindNotFound
)

// StylesheetPath is where the theme stylesheet is served.
const StylesheetPath = "/themes.css"

// Page is everything needed to render one document.
type Page struct {
	Kind   Kind
	Site   *site.Site
	Locale string
	// Path is the request path without the locale prefix.
	Path string
	// Theme is the page-level theme. Empty means the site's base theme.
	Theme theme.Theme
	Meta  seo.Meta
	// Schemas are JSON-LD objects added ahead of those the blocks queue.
	Schemas []seo.Schema

	Header     []cms.Block
	Footer     []cms.Block
	Navigation []cms.Link

	Content    *cms.Content
	Product    *commerce.Product
	Collection *commerce.Collection
}

// Document assembles a full HTML document. Blocks render before the head so
// that schema and meta components can contribute to it.
func (r *Renderer) Document(ctx context.Context, p Page) *html.Node {
	base := theme.Default
	if p.Site != nil && p.Site.BaseTheme.Valid() {
		base = p.Site.BaseTheme
	}
	root := theme.Root(base)
	scope := root
	if p.Theme.Valid() && p.Theme != base {
		scope = theme.Provide(root, p.Theme, false)
	}
	c := r.NewContext(ctx, scope, p.Site, p.Locale, p.Path)

	header := c.Blocks(p.Header)
	if len(header) == 0 {
		h := elem(atom.Header, "class", "bf-header")
		appendAll(h, logoLink(c, "", ""), c.NavLinks(p.Navigation))
		header = []*html.Node{h}
	}
	main := elem(atom.Main, "id", "main")
	appendAll(main, r.main(c, p)...)
	footer := c.Blocks(p.Footer)
	if len(footer) == 0 && p.Site != nil {
		footer = []*html.Node{appendAll(elem(atom.Footer, "class", "bf-footer"),
			textElem(atom.P, "© "+p.Site.Name, "class", "bf-copyright"))}
	}

	body := elem(atom.Body)
	skip := elem(atom.A, "class", "bf-skip", "href", "#main")
	skip.AppendChild(text("Skip to content"))
	body.AppendChild(skip)
	appendAll(body, header...)
	body.AppendChild(main)
	appendAll(body, footer...)

	htmlNode := elem(atom.Html, "lang", p.Locale)
	m := scope.Marker()
	setAttr(htmlNode, m.Key, m.Value)
	appendAll(htmlNode, r.head(c, p), body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(htmlNode)
	return doc
}

// Write renders the document to w.
func (r *Renderer) Write(ctx context.Context, w io.Writer, p Page) error {
	if err := html.Render(w, r.Document(ctx, p)); err != nil {
		return fmt.Errorf("rendering document: %w", err)
	}
	return nil
}

// Bytes renders the document into memory.
func (r *Renderer) Bytes(ctx context.Context, p Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Write(ctx, &buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) head(c *Context, p Page) *html.Node {
	head := elem(atom.Head)
	head.AppendChild(elem(atom.Meta, "charset", "utf-8"))
	head.AppendChild(elem(atom.Meta, "name", "viewport", "content", "width=device-width, initial-scale=1"))

	meta := p.Meta
	c.page.mu.Lock()
	override := c.page.meta
	css := c.page.css.String()
	c.page.mu.Unlock()
	if override.title != "" {
		meta.Title = override.title
	}
	if override.description != "" {
		meta.Description = override.description
	}
	if override.image != "" {
		meta.Image = &seo.OGImage{URL: override.image}
	}
	meta.NoIndex = meta.NoIndex || override.noIndex
	appendAll(head, meta.Nodes()...)

	head.AppendChild(elem(atom.Link, "rel", "stylesheet", "href", StylesheetPath))
	if css != "" {
		style := elem(atom.Style)
		style.AppendChild(&html.Node{Type: html.RawNode, Data: css})
		head.AppendChild(style)
	}

	schemas := append(append([]seo.Schema(nil), p.Schemas...), c.Schemas()...)
	if len(schemas) > 0 {
		script, err := seo.ScriptNode(schemas...)
		if err != nil {
			r.logger.WarnContext(c.Ctx, "dropping structured data", slog.String("error", err.Error()))
		} else {
			head.AppendChild(script)
		}
	}
	return head
}

func (r *Renderer) main(c *Context, p Page) []*html.Node {
	var blocks []cms.Block
	if p.Content != nil {
		blocks = p.Content.Data.Blocks
	}
	switch p.Kind {
	case KindArticle:
		return append([]*html.Node{articleHeader(c, p.Content)}, c.Blocks(blocks)...)
	case KindProduct:
		if p.Product == nil {
			return notFound(c)
		}
		return append([]*html.Node{productDetail(c, p.Product)}, c.Blocks(blocks)...)
	case KindCollection:
		if p.Collection == nil {
			return notFound(c)
		}
		return append(collectionDetail(c, p.Collection), c.Blocks(blocks)...)
	case KindNotFound:
		return notFound(c)
	default:
		return c.Blocks(blocks)
	}
}

func articleHeader(c *Context, content *cms.Content) *html.Node {
	h := elem(atom.Header, "class", "bf-article-header")
	if content == nil {
		return h
	}
	d := content.Data
	appendAll(h, textElem(atom.H1, d.Title, "class", "bf-article-title"))
	byline := elem(atom.P, "class", "bf-byline")
	appendAll(byline, textElem(atom.Span, d.Author, "class", "bf-author"))
	if d.Date != "" {
		byline.AppendChild(textElem(atom.Time, d.Date, "datetime", d.Date))
	}
	if byline.FirstChild != nil {
		h.AppendChild(byline)
	}
	if src := safeURL(d.Image); src != "" {
		h.AppendChild(elem(atom.Img, "class", "bf-article-image", "src", src, "alt", d.Title))
	}
	return h
}

func productDetail(c *Context, p *commerce.Product) *html.Node {
	n := elem(atom.Article, "class", "bf-product")
	gallery := elem(atom.Div, "class", "bf-gallery")
	for i, img := range p.Images {
		alt := img.AltText
		if alt == "" {
			alt = p.Title
		}
		gallery.AppendChild(elem(atom.Img, "src", safeURL(img.URL), "alt", alt, "loading", when(i > 0, "lazy")))
	}
	if gallery.FirstChild != nil {
		n.AppendChild(gallery)
	}

	info := elem(atom.Div, "class", "bf-product-info")
	appendAll(info,
		textElem(atom.P, p.Vendor, "class", "bf-vendor"),
		textElem(atom.H1, p.Title),
		textElem(atom.P, formatPrice(p.PriceRange), "class", "bf-price"),
	)
	if len(p.Variants) > 1 {
		ul := elem(atom.Ul, "class", "bf-variants")
		for _, v := range p.Variants {
			li := textElem(atom.Li, v.Title+" · "+formatMoney(v.Price), "data-variant", v.ID)
			if !v.AvailableForSale {
				addClass(li, "bf-unavailable")
			}
			ul.AppendChild(li)
		}
		info.AppendChild(ul)
	}
	if !p.AvailableForSale {
		info.AppendChild(textElem(atom.P, "Sold out", "class", "bf-badge bf-sold-out"))
	}
	if desc := RichText(p.DescriptionHTML); len(desc) > 0 {
		info.AppendChild(appendAll(elem(atom.Div, "class", "bf-richtext"), desc...))
	}
	appendAll(info, metadataLists(p.Metadata)...)
	n.AppendChild(info)
	return n
}

// metadataLists renders each parsed metafield group as a definition list,
// namespaces and keys in sorted order. Fields without a text form are left
// out, as are groups that end up empty.
func metadataLists(md commerce.Metadata) []*html.Node {
	var out []*html.Node
	for _, ns := range slices.Sorted(maps.Keys(md)) {
		group := md[ns]
		dl := elem(atom.Dl, "class", "bf-metadata", "data-namespace", ns)
		for _, key := range group.Keys() {
			v := group[key]
			var dd *html.Node
			if v.Type == "rich_text_field" {
				if nodes := RichText(v.String()); len(nodes) > 0 {
					dd = appendAll(elem(atom.Dd), nodes...)
				}
			} else {
				dd = textElem(atom.Dd, v.String())
			}
			if dd == nil {
				continue
			}
			appendAll(dl, textElem(atom.Dt, fieldLabel(key)), dd)
		}
		if dl.FirstChild != nil {
			out = append(out, dl)
		}
	}
	return out
}

// fieldLabel turns a metafield key such as "start_date" into "Start date".
func fieldLabel(key string) string {
	label := strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(key))
	if label == "" {
		return key
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func collectionDetail(c *Context, col *commerce.Collection) []*html.Node {
	header := elem(atom.Header, "class", "bf-collection-header")
	appendAll(header,
		textElem(atom.H1, col.Title),
		textElem(atom.P, col.Description, "class", "bf-collection-description"),
	)
	appendAll(header, metadataLists(col.Metadata)...)
	grid := elem(atom.Div, "class", "bf-collection-grid")
	for i := range col.Products {
		grid.AppendChild(productCard(c, &col.Products[i], true, ""))
	}
	return []*html.Node{header, grid}
}

func notFound(c *Context) []*html.Node {
	n := elem(atom.Section, "class", "bf-not-found")
	n.AppendChild(textElem(atom.H1, "Page not found"))
	n.AppendChild(textElem(atom.P, "The page you were looking for has moved or no longer exists."))
	home := elem(atom.A, "class", "bf-button bf-button-primary", "href", c.Href("/"))
	home.AppendChild(text("Back to home"))
	n.AppendChild(home)
	return []*html.Node{n}
}

// ProductPath is the site-relative path of a product.
func ProductPath(handle string) string {
	return "/products/" + url.PathEscape(handle)
}

// CollectionPath is the site-relative path of a collection.
func CollectionPath(handle string) string {
	return "/collections/" + url.PathEscape(handle)
}

// ArticlePath is the site-relative path of an article.
func ArticlePath(slug string) string {
	return "/articles/" + url.PathEscape(slug)
}
