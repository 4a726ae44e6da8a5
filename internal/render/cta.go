package render

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/registry"
)

func registerCTA(r *Renderer) {
	r.Register("Button", renderButton)
	r.Register("ButtonGroup", renderButtonGroup)
	r.Register("CTABanner", renderCTABanner)
	r.Register("NewsletterSignup", renderNewsletter)
	r.Register("Link", renderLink)
}

// link builds an anchor. Links opening a new tab drop the opener.
func link(a atom.Atom, href string, newTab bool, attrs ...string) *html.Node {
	n := elem(a, append([]string{"href", href}, attrs...)...)
	if newTab {
		setAttr(n, "target", "_blank")
		setAttr(n, "rel", "noopener noreferrer")
	}
	return n
}

func renderButton(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	n := link(atom.A, c.Href(v.String("href")), v.Bool("openInNewTab"),
		"class", classes("bf-button", "bf-button-"+v.String("variant"), "bf-size-"+v.String("size"), when(v.Bool("fullWidth"), "bf-full")))
	n.AppendChild(text(v.String("text")))
	return []*html.Node{n}
}

func renderButtonGroup(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Div, "class", classes("bf-button-group", "bf-align-"+v.String("align")))
	return []*html.Node{appendAll(n, c.Blocks(b.Children)...)}
}

func renderCTABanner(c *Context, _ cms.Block, v registry.Values) []*html.Node {
	n := elem(atom.Section, "class", "bf-cta")
	appendAll(n, background(v)...)
	content := elem(atom.Div, "class", "bf-cta-content")
	appendAll(content,
		textElem(atom.H2, v.String("title"), "class", "bf-cta-title"),
		textElem(atom.P, v.String("text"), "class", "bf-cta-text"),
	)
	if href := c.Href(v.String("href")); href != "" && v.String("buttonText") != "" {
		btn := link(atom.A, href, v.Bool("openInNewTab"), "class", "bf-button bf-button-primary")
		btn.AppendChild(text(v.String("buttonText")))
		content.AppendChild(btn)
	}
	return []*html.Node{appendAll(n, content)}
}

func renderNewsletter(_ *Context, b cms.Block, v registry.Values) []*html.Node {
	action := safeURL(v.String("formAction"))
	if action == "" {
		return nil
	}
	inputID := "newsletter-email"
	if id := cssClass(b.ID); id != "" {
		inputID += "-" + id
	}
	n := elem(atom.Form, "class", "bf-newsletter", "method", "post", "action", action)
	appendAll(n,
		textElem(atom.H3, v.String("title"), "class", "bf-newsletter-title"),
		textElem(atom.Label, v.String("placeholder"), "for", inputID, "class", "bf-visually-hidden"),
		elem(atom.Input, "id", inputID, "type", "email", "name", "email", "required", "required",
			"autocomplete", "email", "placeholder", v.String("placeholder")),
		textElem(atom.Button, v.String("buttonText"), "type", "submit", "class", "bf-button bf-button-primary"),
	)
	if consent := RichText(v.String("consentText")); len(consent) > 0 {
		n.AppendChild(appendAll(elem(atom.Div, "class", "bf-consent"), consent...))
	}
	return []*html.Node{n}
}

// renderLink shows its text, or its children when it has no text.
func renderLink(c *Context, b cms.Block, v registry.Values) []*html.Node {
	n := link(atom.A, c.Href(v.String("href")), v.Bool("openInNewTab"), "class", "bf-link")
	if t := v.String("text"); t != "" {
		n.AppendChild(text(t))
	} else {
		appendAll(n, c.Blocks(b.Children)...)
	}
	return []*html.Node{n}
}
