package render

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockedTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Base:     true,
	atom.Link:     true,
	atom.Meta:     true,
	atom.Form:     true,
	atom.Noscript: true,
	atom.Template: true,
}

var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"poster":     true,
	"xlink:href": true,
}

// RichText parses editor HTML as the content of a div and strips anything
// that can run script: blocked elements, event handler attributes and
// non-http URLs.
func RichText(s string) []*html.Node {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	context := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(s), context)
	if err != nil {
		return []*html.Node{text(s)}
	}
	out := nodes[:0]
	for _, n := range nodes {
		if sanitize(n) {
			out = append(out, n)
		}
	}
	return out
}

// sanitize cleans n in place and reports whether it should be kept.
func sanitize(n *html.Node) bool {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return false
	case html.ElementNode:
		if blockedTags[n.DataAtom] || n.DataAtom == 0 && strings.Contains(n.Data, ":") {
			return false
		}
		attrs := n.Attr[:0]
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") || key == "style" && strings.Contains(strings.ToLower(a.Val), "expression(") {
				continue
			}
			if urlAttrs[key] {
				a.Val = safeURL(a.Val)
			}
			attrs = append(attrs, a)
		}
		n.Attr = attrs
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !sanitize(c) {
			n.RemoveChild(c)
		}
		c = next
	}
	return true
}

// safeURL passes relative URLs and http(s), mailto and tel links. Anything
// else becomes "#".
func safeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "tel":
	default:
		return "#"
	}
	if u.Scheme == "" && u.Opaque != "" {
		return "#"
	}
	return raw
}
