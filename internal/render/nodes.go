package render

import (
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/blockfront/internal/registry"
)

func elem(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] == "" && attrs[i] != "alt" {
			continue
		}
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// elemTag builds an element from a tag name taken from content. Unknown or
// unsafe tags become divs.
func elemTag(tag string) *html.Node {
	a := atom.Lookup([]byte(strings.ToLower(tag)))
	if a == 0 || blockedTags[a] {
		a = atom.Div
	}
	return elem(a)
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// textElem returns an element holding s, or nil when s is empty.
func textElem(a atom.Atom, s string, attrs ...string) *html.Node {
	if s == "" {
		return nil
	}
	n := elem(a, attrs...)
	n.AppendChild(text(s))
	return n
}

// appendAll adds children to parent, skipping nils and detaching nodes that
// already have a parent.
func appendAll(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		parent.AppendChild(c)
	}
	return parent
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func addClass(n *html.Node, class string) {
	if existing, ok := getAttr(n, "class"); ok && existing != "" {
		setAttr(n, "class", existing+" "+class)
		return
	}
	setAttr(n, "class", class)
}

// classes joins the non-empty class names.
func classes(names ...string) string {
	out := names[:0:0]
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}

// when returns s if cond holds, otherwise "".
func when(cond bool, s string) string {
	if cond {
		return s
	}
	return ""
}

func number(v registry.Values, name string) (float64, bool) {
	switch n := v.Get(name).(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func intOr(v registry.Values, name string, def int) int {
	if f, ok := number(v, name); ok {
		return int(f)
	}
	return def
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// list reads a list input as a slice of value maps.
func list(v registry.Values, name string) []registry.Values {
	raw, _ := v.Get(name).([]any)
	out := make([]registry.Values, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, registry.Values(m))
		}
	}
	return out
}
