// Package seo builds the document head: meta tags, hreflang alternates and
// schema.org JSON-LD.
package seo

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Alternate is a localized variant of the current page.
type Alternate struct {
	Locale string
	URL    string
}

// OGImage is an Open Graph image. Zero dimensions are omitted.
type OGImage struct {
	URL    string
	Alt    string
	Width  int
	Height int
}

// Meta is everything rendered into <head> besides stylesheets.
type Meta struct {
	Title       string
	SiteName    string
	Description string
	Canonical   string
	Locale      string
	NoIndex     bool
	Type        string // og:type, "website" when empty
	Image       *OGImage
	TwitterCard string // "summary_large_image" when an image is set
	Alternates  []Alternate
	// DefaultAlternate is the x-default hreflang target.
	DefaultAlternate string
}

// FullTitle joins the page title and site name.
func (m Meta) FullTitle() string {
	switch {
	case m.Title == "":
		return m.SiteName
	case m.SiteName == "" || m.Title == m.SiteName:
		return m.Title
	default:
		return m.Title + " | " + m.SiteName
	}
}

// Robots returns the robots meta value.
func (m Meta) Robots() string {
	if m.NoIndex {
		return "noindex, nofollow"
	}
	return "index, follow"
}

func elem(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func metaName(name, content string) *html.Node {
	return elem(atom.Meta, "name", name, "content", content)
}

func metaProperty(property, content string) *html.Node {
	return elem(atom.Meta, "property", property, "content", content)
}

// Nodes renders the meta tags in head order. Empty values are skipped.
func (m Meta) Nodes() []*html.Node {
	var out []*html.Node

	title := elem(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: m.FullTitle()})
	out = append(out, title)

	if m.Description != "" {
		out = append(out, metaName("description", m.Description))
	}
	out = append(out, metaName("robots", m.Robots()))
	if m.Canonical != "" {
		out = append(out, elem(atom.Link, "rel", "canonical", "href", m.Canonical))
	}
	for _, alt := range m.Alternates {
		out = append(out, elem(atom.Link, "rel", "alternate", "hreflang", alt.Locale, "href", alt.URL))
	}
	if m.DefaultAlternate != "" {
		out = append(out, elem(atom.Link, "rel", "alternate", "hreflang", "x-default", "href", m.DefaultAlternate))
	}

	ogType := m.Type
	if ogType == "" {
		ogType = "website"
	}
	out = append(out,
		metaProperty("og:type", ogType),
		metaProperty("og:title", m.FullTitle()),
	)
	if m.SiteName != "" {
		out = append(out, metaProperty("og:site_name", m.SiteName))
	}
	if m.Description != "" {
		out = append(out, metaProperty("og:description", m.Description))
	}
	if m.Canonical != "" {
		out = append(out, metaProperty("og:url", m.Canonical))
	}
	if m.Locale != "" {
		out = append(out, metaProperty("og:locale", ogLocale(m.Locale)))
	}

	card := m.TwitterCard
	if m.Image != nil && m.Image.URL != "" {
		out = append(out, metaProperty("og:image", m.Image.URL))
		if m.Image.Width > 0 && m.Image.Height > 0 {
			out = append(out,
				metaProperty("og:image:width", strconv.Itoa(m.Image.Width)),
				metaProperty("og:image:height", strconv.Itoa(m.Image.Height)),
			)
		}
		if m.Image.Alt != "" {
			out = append(out, metaProperty("og:image:alt", m.Image.Alt))
		}
		if card == "" {
			card = "summary_large_image"
		}
	}
	if card == "" {
		card = "summary"
	}
	out = append(out, metaName("twitter:card", card), metaName("twitter:title", m.FullTitle()))
	if m.Description != "" {
		out = append(out, metaName("twitter:description", m.Description))
	}
	if m.Image != nil && m.Image.URL != "" {
		out = append(out, metaName("twitter:image", m.Image.URL))
	}
	return out
}

// ogLocale converts en-GB to en_GB.
func ogLocale(locale string) string {
	b := []byte(locale)
	for i, c := range b {
		if c == '-' {
			b[i] = '_'
		}
	}
	return string(b)
}
