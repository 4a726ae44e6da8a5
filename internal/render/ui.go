package render

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/commerce"
	"github.com/jmylchreest/blockfront/internal/registry"
)

func registerUI(r *Renderer) {
	r.Register("Heading", renderHeading)
	r.Register("RichText", renderRichText)
	r.Register("Image", renderImage)
	r.Register("Video", renderVideo)
	r.Register("YouTubeEmbed", renderYouTube)
	r.Register("Accordion", renderAccordion)
	r.Register("AccordionItem", renderAccordionItem)
	r.Register("Tabs", renderTabs)
	r.Register("Tab", renderTab)
	r.Register("Tile", renderTile)
	r.Register("TileGrid", renderTileGrid)
	r.Register("Card", renderCard)
	r.Register("Carousel", renderCarousel)
	r.Register("CarouselSlide", renderCarouselSlide)
	r.Register("Testimonial", renderTestimonial)
	r.Register("Badge", renderBadge)
	r.Register("ProductTile", renderProductTile)
	r.Register("CollectionGrid", renderCollectionGrid)
}

var headingLevels = map[string]atom.Atom{
	"h1": atom.H1, "h2": atom.H2, "h3": atom.H3,
	"h4": atom.H4, "h5": atom.H5, "h6": atom.H6,
}

func renderHeading(_ *Context, _ cms.Block, v registry.Values) []*html.Node {
	level, ok := headingLevels[v.String("level")]
	if !ok {
		level = atom.H2
	}
	n := elem(level, "class", classes("bf-heading", "bf-align-"+v.String("align")))
	n.AppendChild(text(v.String("text")))
	return []*html.Node{n}
}

func renderRichText(_ *Context, _ cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Div, "class", "bf-richtext")
	return []*html.Node{appendAll(n, RichText(v.String("text"))...)}
}

func renderImage(_ *Context, _ cms.Block, v registry.Values) []*html.Node {
	src := safeURL(v.String("image"))
	if src == "" {
		return nil
	}
	var style string
	if ratio, ok := number(v, "aspectRatio"); ok && ratio > 0 {
		style = "aspect-ratio:" + strconv.FormatFloat(1/ratio, 'f', 4, 64)
	}
	return []*html.Node{elem(atom.Img,
		"class", "bf-image",
		"src", src,
		"alt", v.String("altText"),
		"style", style,
		"loading", when(v.Bool("lazy"), "lazy"),
		"decoding", "async")}
}

func renderVideo(_ *Context, _ cms.Block, v registry.Values) []*html.Node {
	src := safeURL(v.String("video"))
	if src == "" {
		return nil
	}
	autoplay := v.Bool("autoplay")
	n := elem(atom.Video,
		"class", "bf-video",
		"poster", safeURL(v.String("poster")),
		"controls", when(!autoplay, "controls"),
		"autoplay", when(autoplay, "autoplay"),
		"muted", when(autoplay || v.Bool("muted"), "muted"),
		"loop", when(v.Bool("loop"), "loop"),
		"playsinline", "playsinline",
		"preload", "metadata")
	n.AppendChild(elem(atom.Source, "src", src))
	return []*html.Node{n}
}

func renderYouTube(_ *Context, _ cms.Block, v registry.Values) []*html.Node {
	id := v.String("youtubeId")
	if id == "" {
		return nil
	}
	src := "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id)
	if start := intOr(v, "start", 0); start > 0 {
		src += "?start=" + strconv.Itoa(start)
	}
	title := v.String("title")
	if title == "" {
		title = "YouTube video"
	}
	wrap := elem(atom.Div, "class", "bf-embed")
	wrap.AppendChild(elem(atom.Iframe,
		"src", src,
		"title", title,
		"loading", "lazy",
		"allow", "accelerometer; encrypted-media; gyroscope; picture-in-picture",
		"allowfullscreen", "allowfullscreen"))
	return []*html.Node{wrap}
}

func renderAccordion(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Div, "class", "bf-accordion", "data-multiple", strconv.FormatBool(v.Bool("allowMultiple")))
	return []*html.Node{appendAll(n, c.Blocks(b.Children)...)}
}

func renderAccordionItem(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Details, "class", "bf-accordion-item", "open", when(v.Bool("open"), "open"))
	appendAll(n, textElem(atom.Summary, v.String("title")))
	body := elem(atom.Div, "class", "bf-accordion-body")
	appendAll(body, c.Blocks(b.Children)...)
	return []*html.Node{appendAll(n, body)}
}

// renderTabs builds the tab list from the labels of its Tab children.
func renderTabs(c *Context, b cms.Block, _ registry.Values) []*html.Node {
	n := elem(atom.Div, "class", "bf-tabs")
	tablist := elem(atom.Div, "role", "tablist")
	tab, _ := c.r.registry.Lookup("Tab")
	for i, child := range b.Children {
		if child.Name() != "Tab" {
			continue
		}
		label := tab.WithDefaults(child.Options()).String("label")
		id := tabID(b, i)
		appendAll(tablist, textElem(atom.Button, label,
			"type", "button",
			"role", "tab",
			"id", id+"-tab",
			"aria-controls", id,
			"aria-selected", strconv.FormatBool(i == 0)))
	}
	n.AppendChild(tablist)
	for i, child := range b.Children {
		panels := c.Block(child)
		if len(panels) > 0 && panels[0].Type == html.ElementNode {
			id := tabID(b, i)
			setAttr(panels[0], "id", id)
			setAttr(panels[0], "aria-labelledby", id+"-tab")
			if i > 0 {
				setAttr(panels[0], "hidden", "hidden")
			}
		}
		appendAll(n, panels...)
	}
	return []*html.Node{n}
}

func tabID(b cms.Block, i int) string {
	base := cssClass(b.ID)
	if base == "" {
		base = "tabs"
	}
	return fmt.Sprintf("%s-%d", base, i)
}

func renderTab(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Div, "class", "bf-tab", "role", "tabpanel", "data-label", v.String("label"))
	return []*html.Node{appendAll(n, c.Blocks(b.Children)...)}
}

func renderTile(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	var n *html.Node
	if href := c.Href(v.String("href")); href != "" {
		n = link(atom.A, href, v.Bool("openInNewTab"), "class", "bf-tile")
	} else {
		n = elem(atom.Div, "class", "bf-tile")
	}
	if src := safeURL(v.String("image")); src != "" {
		n.AppendChild(elem(atom.Img, "src", src, "alt", "", "loading", "lazy"))
	}
	appendAll(n,
		textElem(atom.H3, v.String("title"), "class", "bf-tile-title"),
		textElem(atom.P, v.String("text"), "class", "bf-tile-text"),
	)
	return []*html.Node{n}
}

func renderTileGrid(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Div, "class", "bf-tile-grid", "style", "--columns:"+strconv.Itoa(intOr(v, "columns", 3)))
	return []*html.Node{appendAll(n, c.Blocks(b.Children)...)}
}

func renderCard(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Article, "class", classes("bf-card", when(v.Bool("elevated"), "bf-elevated")))
	if src := safeURL(v.String("image")); src != "" {
		n.AppendChild(elem(atom.Img, "src", src, "alt", "", "loading", "lazy"))
	}
	appendAll(n, textElem(atom.H3, v.String("title"), "class", "bf-card-title"))
	body := elem(atom.Div, "class", "bf-card-body")
	appendAll(body, c.Blocks(b.Children)...)
	return []*html.Node{appendAll(n, body)}
}

func renderCarousel(c *Context, b cms.Block, v registry.Values) []*html.Node {
	autoplay := v.Bool("autoplay")
	interval := ""
	if autoplay {
		interval = strconv.Itoa(intOr(v, "interval", 6))
	}
	n := elem(atom.Div,
		"class", "bf-carousel",
		"role", "region",
		"aria-roledescription", "carousel",
		"data-autoplay", strconv.FormatBool(autoplay),
		"data-interval", interval)
	track := elem(atom.Div, "class", "bf-carousel-track")
	appendAll(track, c.Blocks(b.Children)...)
	n.AppendChild(track)
	if v.Bool("showDots") && len(b.Children) > 1 {
		dots := elem(atom.Div, "class", "bf-carousel-dots")
		for i := range b.Children {
			dots.AppendChild(elem(atom.Button, "type", "button", "aria-label", fmt.Sprintf("Slide %d", i+1), "data-slide", strconv.Itoa(i)))
		}
		n.AppendChild(dots)
	}
	return []*html.Node{n}
}

func renderCarouselSlide(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Div, "class", "bf-slide", "role", "group", "aria-roledescription", "slide")
	appendAll(n, background(v)...)
	content := elem(atom.Div, "class", "bf-slide-content")
	appendAll(content, c.Blocks(b.Children)...)
	return []*html.Node{appendAll(n, content)}
}

func renderTestimonial(_ *Context, _ cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Figure, "class", "bf-testimonial")
	appendAll(n, textElem(atom.Blockquote, v.String("quote")))
	caption := elem(atom.Figcaption)
	if src := safeURL(v.String("avatar")); src != "" {
		caption.AppendChild(elem(atom.Img, "class", "bf-avatar", "src", src, "alt", "", "loading", "lazy"))
	}
	appendAll(caption,
		textElem(atom.Cite, v.String("author")),
		textElem(atom.Span, v.String("role"), "class", "bf-role"),
	)
	if rating, ok := number(v, "rating"); ok && rating >= 1 {
		stars := min(int(rating), 5)
		caption.AppendChild(textElem(atom.Span, strings.Repeat("★", stars)+strings.Repeat("☆", 5-stars),
			"class", "bf-rating", "aria-label", fmt.Sprintf("%d out of 5", stars)))
	}
	return []*html.Node{appendAll(n, caption)}
}

func renderBadge(_ *Context, _ cms.Block, v registry.Values) []*html.Node {
	return []*html.Node{textElem(atom.Span, v.String("text"), "class", "bf-badge")}
}

func renderProductTile(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	p := c.product(v.String("handle"))
	if p == nil {
		return nil
	}
	return []*html.Node{productCard(c, p, v.Bool("showPrice"), v.String("ctaText"))}
}

func renderCollectionGrid(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	handle := v.String("handle")
	col := c.collection(handle, intOr(v, "limit", 8))
	if col == nil {
		return nil
	}
	n := elem(atom.Div, "class", "bf-collection-grid", "style", "--columns:"+strconv.Itoa(intOr(v, "columns", 4)))
	for i := range col.Products {
		n.AppendChild(productCard(c, &col.Products[i], true, ""))
	}
	return []*html.Node{n}
}

// productCard is the tile shared by product tiles, collection grids and
// collection pages.
func productCard(c *Context, p *commerce.Product, showPrice bool, cta string) *html.Node {
	n := elem(atom.A, "class", "bf-product-tile", "href", c.Href(ProductPath(p.Handle)))
	if p.FeaturedImage != nil {
		alt := p.FeaturedImage.AltText
		if alt == "" {
			alt = p.Title
		}
		n.AppendChild(elem(atom.Img, "src", safeURL(p.FeaturedImage.URL), "alt", alt, "loading", "lazy"))
	}
	appendAll(n, textElem(atom.H3, p.Title, "class", "bf-product-title"))
	if showPrice {
		appendAll(n, textElem(atom.P, formatPrice(p.PriceRange), "class", "bf-price"))
	}
	if !p.AvailableForSale {
		n.AppendChild(textElem(atom.Span, "Sold out", "class", "bf-badge bf-sold-out"))
	}
	appendAll(n, textElem(atom.Span, cta, "class", "bf-button bf-button-secondary"))
	return n
}

// formatPrice shows a single price, or "from" the minimum for a range.
func formatPrice(r commerce.PriceRange) string {
	lo, hi := r.MinVariantPrice, r.MaxVariantPrice
	if lo.Amount == "" {
		return ""
	}
	price := formatMoney(lo)
	if hi.Amount != "" && hi.Amount != lo.Amount {
		return "From " + price
	}
	return price
}

func formatMoney(m commerce.Money) string {
	f, err := strconv.ParseFloat(m.Amount, 64)
	if err != nil {
		return strings.TrimSpace(m.Amount + " " + m.CurrencyCode)
	}
	return strings.TrimSpace(strconv.FormatFloat(f, 'f', 2, 64) + " " + m.CurrencyCode)
}

func (c *Context) product(handle string) *commerce.Product {
	if handle == "" || c.r.store == nil {
		return nil
	}
	p, err := c.r.store.Product(c.Ctx, handle, c.Locale)
	if err != nil {
		c.Logger().WarnContext(c.Ctx, "product unavailable",
			slog.String("handle", handle),
			slog.String("error", err.Error()))
		return nil
	}
	return p
}

func (c *Context) collection(handle string, first int) *commerce.Collection {
	if handle == "" || c.r.store == nil {
		return nil
	}
	col, err := c.r.store.Collection(c.Ctx, handle, first, c.Locale)
	if err != nil {
		c.Logger().WarnContext(c.Ctx, "collection unavailable",
			slog.String("handle", handle),
			slog.String("error", err.Error()))
		return nil
	}
	return col
}
