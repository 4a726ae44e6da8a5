package registry

import "encoding/json"

// Insert menu names shown in the editor's block palette.
const (
	MenuNavigation = "Navigation"
	MenuUI         = "UI"
	MenuCTA        = "CTA"
	MenuLayout     = "Layout"
	MenuSEO        = "SEO"
)

// InsertMenu groups components in the editor's insert palette.
type InsertMenu struct {
	Name  string
	Items []string
}

// MarshalJSON emits {"name": ..., "items": [{"name": ...}]}.
func (m InsertMenu) MarshalJSON() ([]byte, error) {
	type item struct {
		Name string `json:"name"`
	}
	items := make([]item, len(m.Items))
	for i, n := range m.Items {
		items[i] = item{Name: n}
	}
	return json.Marshal(struct {
		Name  string `json:"name"`
		Items []item `json:"items"`
	}{m.Name, items})
}
