package commerce

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// richTextNode is one node of the rich_text_field JSON tree.
type richTextNode struct {
	Type     string         `json:"type"`
	Children []richTextNode `json:"children"`
	Value    string         `json:"value"`
	Bold     bool           `json:"bold"`
	Italic   bool           `json:"italic"`
	Level    int            `json:"level"`
	ListType string         `json:"listType"`
	URL      string         `json:"url"`
	Title    string         `json:"title"`
	Target   string         `json:"target"`
}

// parseRichText renders a rich_text_field document as an HTML fragment.
func parseRichText(raw string) (any, error) {
	var root richTextNode
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		return nil, err
	}
	if root.Type != "root" {
		return nil, fmt.Errorf("rich text root has type %q", root.Type)
	}

	var b strings.Builder
	for _, child := range root.Children {
		n, err := richTextToHTML(child)
		if err != nil {
			return nil, err
		}
		if err := html.Render(&b, n); err != nil {
			return nil, err
		}
	}
	return b.String(), nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func richTextToHTML(n richTextNode) (*html.Node, error) {
	var el *html.Node
	switch n.Type {
	case "text":
		node := &html.Node{Type: html.TextNode, Data: n.Value}
		if n.Italic {
			em := element(atom.Em)
			em.AppendChild(node)
			node = em
		}
		if n.Bold {
			strong := element(atom.Strong)
			strong.AppendChild(node)
			node = strong
		}
		return node, nil
	case "paragraph":
		el = element(atom.P)
	case "heading":
		level := min(max(n.Level, 1), 6)
		el = element(atom.Lookup([]byte(fmt.Sprintf("h%d", level))))
	case "list":
		if n.ListType == "ordered" {
			el = element(atom.Ol)
		} else {
			el = element(atom.Ul)
		}
	case "list-item":
		el = element(atom.Li)
	case "link":
		var attrs []html.Attribute
		if _, err := parseURL(n.URL); err == nil || strings.HasPrefix(n.URL, "/") {
			attrs = append(attrs, html.Attribute{Key: "href", Val: n.URL})
		}
		if n.Title != "" {
			attrs = append(attrs, html.Attribute{Key: "title", Val: n.Title})
		}
		if n.Target != "" {
			attrs = append(attrs, html.Attribute{Key: "target", Val: n.Target})
		}
		el = element(atom.A, attrs...)
	default:
		return nil, fmt.Errorf("unknown rich text node %q", n.Type)
	}

	for _, c := range n.Children {
		child, err := richTextToHTML(c)
		if err != nil {
			return nil, err
		}
		el.AppendChild(child)
	}
	return el, nil
}
