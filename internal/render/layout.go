package render

import (
	"net/url"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/registry"
)

func registerLayout(r *Renderer) {
	r.Register("Section", renderSection)
	r.Register("Container", renderContainer)
	r.Register("Columns", renderColumns)
	r.Register("Grid", renderGrid)
	r.Register("Spacer", renderSpacer)
	r.Register("Divider", renderDivider)
	r.Register(ProviderComponent, renderProvider)
	r.Register("Hero", renderHero)
	r.Register("Banner", renderBanner)
	r.Register("SplitBanner", renderSplitBanner)
}

// background renders the media layer and overlay for the backgroundType
// inputs. It returns nil for no background.
func background(v registry.Values) []*html.Node {
	var media *html.Node
	switch v.String("backgroundType") {
	case "image":
		if src := safeURL(v.String("backgroundImage")); src != "" {
			media = elem(atom.Div, "class", "bf-bg bf-bg-image", "style", "background-image:url("+strconv.Quote(src)+")")
		}
	case "video":
		if src := safeURL(v.String("backgroundVideo")); src != "" {
			media = elem(atom.Video, "class", "bf-bg bf-bg-video",
				"autoplay", "autoplay", "muted", "muted", "loop", "loop", "playsinline", "playsinline", "aria-hidden", "true")
			media.AppendChild(elem(atom.Source, "src", src))
		}
	case "youtube":
		if id := v.String("youtubeId"); id != "" {
			q := url.Values{}
			q.Set("autoplay", "1")
			q.Set("mute", "1")
			q.Set("loop", "1")
			q.Set("controls", "0")
			q.Set("playlist", id)
			media = elem(atom.Iframe, "class", "bf-bg bf-bg-youtube",
				"src", "https://www.youtube-nocookie.com/embed/"+url.PathEscape(id)+"?"+q.Encode(),
				"allow", "autoplay; encrypted-media", "tabindex", "-1", "aria-hidden", "true")
		}
	}
	if media == nil {
		return nil
	}
	out := []*html.Node{media}
	if opacity, ok := number(v, "overlayOpacity"); ok && opacity > 0 {
		out = append(out, elem(atom.Div, "class", "bf-overlay", "style", "opacity:"+formatNumber(opacity)))
	}
	return out
}

func renderSection(c *Context, b cms.Block, v registry.Values) []*html.Node {
	bg := background(v)
	n := elem(atom.Section,
		"class", classes("bf-section", "bf-width-"+v.String("maxWidth"), when(bg != nil, "bf-has-bg")),
		"id", v.String("anchor"))
	appendAll(n, bg...)
	inner := elem(atom.Div, "class", "bf-section-inner")
	appendAll(inner, c.Blocks(b.Children)...)
	return []*html.Node{appendAll(n, inner)}
}

func renderContainer(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Div, "class", "bf-container", "style", "max-width:"+formatNumber(float64(intOr(v, "maxWidth", 1200)))+"px")
	return []*html.Node{appendAll(n, c.Blocks(b.Children)...)}
}

func renderColumns(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Div,
		"class", classes("bf-columns", when(v.Bool("stackOnMobile"), "bf-stack"), when(v.Bool("stackOnMobile") && v.Bool("reverseOnMobile"), "bf-reverse")),
		"style", "--columns:"+strconv.Itoa(intOr(v, "columns", 2))+";--gap:"+strconv.Itoa(intOr(v, "gap", 24))+"px")
	for _, child := range b.Children {
		col := elem(atom.Div, "class", "bf-column")
		appendAll(col, c.Block(child)...)
		n.AppendChild(col)
	}
	return []*html.Node{n}
}

func renderGrid(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Div, "class", "bf-grid", "style",
		"--cols-desktop:"+strconv.Itoa(intOr(v, "columnsDesktop", 3))+
			";--cols-tablet:"+strconv.Itoa(intOr(v, "columnsTablet", 2))+
			";--cols-mobile:"+strconv.Itoa(intOr(v, "columnsMobile", 1))+
			";--gap:"+strconv.Itoa(intOr(v, "gap", 24))+"px")
	return []*html.Node{appendAll(n, c.Blocks(b.Children)...)}
}

func renderSpacer(_ *Context, _ cms.Block, v registry.Values) []*html.Node {
	return []*html.Node{elem(atom.Div, "class", "bf-spacer", "style", "height:"+strconv.Itoa(intOr(v, "height", 48))+"px", "aria-hidden", "true")}
}

func renderDivider(_ *Context, _ cms.Block, v registry.Values) []*html.Node {
	return []*html.Node{elem(atom.Hr, "class", classes("bf-divider", "bf-divider-"+v.String("style")))}
}

// renderProvider is the explicit theme wrapper. Its scope and marker are set
// up by Context.Block.
func renderProvider(c *Context, b cms.Block, _ registry.Values) []*html.Node {
	n := elem(atom.Div, "class", "bf-theme-provider")
	return []*html.Node{appendAll(n, c.Blocks(b.Children)...)}
}

func renderHero(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Section, "class", classes("bf-hero", "bf-align-"+v.String("alignment"), "bf-height-"+v.String("height")))
	appendAll(n, background(v)...)
	content := elem(atom.Div, "class", "bf-hero-content")
	appendAll(content,
		textElem(atom.P, v.String("eyebrow"), "class", "bf-eyebrow"),
		textElem(atom.H1, v.String("title"), "class", "bf-hero-title"),
		textElem(atom.P, v.String("subtitle"), "class", "bf-hero-subtitle"),
	)
	appendAll(content, c.Blocks(b.Children)...)
	return []*html.Node{appendAll(n, content)}
}

func renderBanner(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Aside, "class", classes("bf-banner", when(v.Bool("dismissible"), "bf-dismissible")))
	appendAll(n, background(v)...)
	content := elem(atom.Div, "class", "bf-banner-content")
	appendAll(content, textElem(atom.H2, v.String("title"), "class", "bf-banner-title"))
	if body := RichText(v.String("text")); len(body) > 0 {
		appendAll(content, appendAll(elem(atom.Div, "class", "bf-richtext"), body...))
	}
	appendAll(content, c.Blocks(b.Children)...)
	n.AppendChild(content)
	if v.Bool("dismissible") {
		n.AppendChild(textElem(atom.Button, "×", "type", "button", "class", "bf-dismiss", "aria-label", "Dismiss"))
	}
	return []*html.Node{n}
}

func renderSplitBanner(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Section, "class", classes("bf-split", "bf-image-"+v.String("imagePosition"), "bf-ratio-"+v.String("ratio")))
	if src := safeURL(v.String("image")); src != "" {
		fig := elem(atom.Figure, "class", "bf-split-media")
		fig.AppendChild(elem(atom.Img, "src", src, "alt", v.String("imageAlt"), "loading", "lazy"))
		n.AppendChild(fig)
	}
	content := elem(atom.Div, "class", "bf-split-content")
	appendAll(content, c.Blocks(b.Children)...)
	return []*html.Node{appendAll(n, content)}
}
