package seo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/blockfront/internal/commerce"
)

const schemaContext = "https://schema.org"

// Schema is one schema.org JSON-LD object.
type Schema map[string]any

func newSchema(typ string) Schema {
	return Schema{"@context": schemaContext, "@type": typ}
}

// set stores v unless it is a zero string or nil slice.
func (s Schema) set(key string, v any) Schema {
	switch x := v.(type) {
	case string:
		if x == "" {
			return s
		}
	case []string:
		if len(x) == 0 {
			return s
		}
	case nil:
		return s
	}
	s[key] = v
	return s
}

// Organization describes the publisher of a site.
type Organization struct {
	Name   string
	URL    string
	Logo   string
	SameAs []string
}

// OrganizationSchema builds an Organization object.
func OrganizationSchema(o Organization) Schema {
	return newSchema("Organization").
		set("name", o.Name).
		set("url", o.URL).
		set("logo", o.Logo).
		set("sameAs", o.SameAs)
}

// WebSiteSchema builds a WebSite object.
func WebSiteSchema(name, url, locale string) Schema {
	return newSchema("WebSite").
		set("name", name).
		set("url", url).
		set("inLanguage", locale)
}

// ProductSchema builds a Product object with one Offer per variant.
func ProductSchema(p *commerce.Product, pageURL, brand string) Schema {
	s := newSchema("Product").
		set("name", p.Title).
		set("description", p.Description).
		set("url", pageURL).
		set("sku", firstSKU(p)).
		set("brand", brandOf(p, brand))

	var images []string
	if p.FeaturedImage != nil {
		images = append(images, p.FeaturedImage.URL)
	}
	for _, img := range p.Images {
		if p.FeaturedImage == nil || img.URL != p.FeaturedImage.URL {
			images = append(images, img.URL)
		}
	}
	s.set("image", images)

	offers := make([]Schema, 0, len(p.Variants))
	for _, v := range p.Variants {
		availability := "https://schema.org/OutOfStock"
		if v.AvailableForSale {
			availability = "https://schema.org/InStock"
		}
		offers = append(offers, Schema{
			"@type":         "Offer",
			"name":          v.Title,
			"price":         v.Price.Amount,
			"priceCurrency": v.Price.CurrencyCode,
			"availability":  availability,
			"url":           pageURL,
		})
	}
	if len(offers) > 0 {
		s["offers"] = offers
	}
	if props := additionalProperties(p.Metadata); len(props) > 0 {
		s["additionalProperty"] = props
	}
	return s
}

// additionalProperties lists the text metafields as PropertyValues, with the
// namespace-qualified key as propertyID. Rich text is left to the page.
func additionalProperties(md commerce.Metadata) []Schema {
	var props []Schema
	for _, ns := range slices.Sorted(maps.Keys(md)) {
		group := md[ns]
		for _, key := range group.Keys() {
			v := group[key]
			text := v.String()
			if text == "" || v.Type == "rich_text_field" {
				continue
			}
			props = append(props, Schema{
				"@type":      "PropertyValue",
				"propertyID": ns + "." + key,
				"name":       key,
				"value":      text,
			})
		}
	}
	return props
}

func firstSKU(p *commerce.Product) string {
	for _, v := range p.Variants {
		if v.SKU != "" {
			return v.SKU
		}
	}
	return ""
}

func brandOf(p *commerce.Product, fallback string) any {
	name := p.Vendor
	if name == "" {
		name = fallback
	}
	if name == "" {
		return nil
	}
	return Schema{"@type": "Brand", "name": name}
}

// Article describes a blog post or article page.
type Article struct {
	Headline      string
	Description   string
	Image         string
	Author        string
	DatePublished string
	DateModified  string
	URL           string
	Publisher     *Organization
}

// ArticleSchema builds an Article object.
func ArticleSchema(a Article) Schema {
	s := newSchema("Article").
		set("headline", a.Headline).
		set("description", a.Description).
		set("image", a.Image).
		set("datePublished", a.DatePublished).
		set("dateModified", a.DateModified).
		set("mainEntityOfPage", a.URL)
	if a.Author != "" {
		s["author"] = Schema{"@type": "Person", "name": a.Author}
	}
	if a.Publisher != nil {
		pub := OrganizationSchema(*a.Publisher)
		delete(pub, "@context")
		s["publisher"] = pub
	}
	return s
}

// QA is one FAQ entry. Answer may contain HTML.
type QA struct {
	Question string
	Answer   string
}

// FAQPageSchema builds an FAQPage object.
func FAQPageSchema(items []QA) Schema {
	entities := make([]Schema, 0, len(items))
	for _, qa := range items {
		entities = append(entities, Schema{
			"@type": "Question",
			"name":  qa.Question,
			"acceptedAnswer": Schema{
				"@type": "Answer",
				"text":  qa.Answer,
			},
		})
	}
	s := newSchema("FAQPage")
	s["mainEntity"] = entities
	return s
}

// Crumb is one breadcrumb step.
type Crumb struct {
	Name string
	URL  string
}

// BreadcrumbListSchema builds a BreadcrumbList with 1-based positions.
func BreadcrumbListSchema(crumbs []Crumb) Schema {
	items := make([]Schema, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, Schema{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     c.Name,
			"item":     c.URL,
		})
	}
	s := newSchema("BreadcrumbList")
	s["itemListElement"] = items
	return s
}

// Event describes a retreat, class or workshop.
type Event struct {
	Name           string
	Description    string
	StartDate      string
	EndDate        string
	AttendanceMode string // offline, online or mixed
	Location       string
	URL            string
	Image          string
}

var attendanceModes = map[string]string{
	"offline": "https://schema.org/OfflineEventAttendanceMode",
	"online":  "https://schema.org/OnlineEventAttendanceMode",
	"mixed":   "https://schema.org/MixedEventAttendanceMode",
}

// EventSchema builds an Event object.
func EventSchema(e Event) Schema {
	mode := e.AttendanceMode
	if _, ok := attendanceModes[mode]; !ok {
		mode = "offline"
	}
	s := newSchema("Event").
		set("name", e.Name).
		set("description", e.Description).
		set("startDate", e.StartDate).
		set("endDate", e.EndDate).
		set("image", e.Image).
		set("eventAttendanceMode", attendanceModes[mode]).
		set("eventStatus", "https://schema.org/EventScheduled")

	var locations []Schema
	if mode != "online" && e.Location != "" {
		locations = append(locations, Schema{"@type": "Place", "name": e.Location})
	}
	if mode != "offline" && e.URL != "" {
		locations = append(locations, Schema{"@type": "VirtualLocation", "url": e.URL})
	}
	switch len(locations) {
	case 0:
	case 1:
		s["location"] = locations[0]
	default:
		s["location"] = locations
	}
	return s
}

// Video describes an embedded video.
type Video struct {
	Name        string
	Description string
	YouTubeID   string
	UploadDate  string
}

// VideoObjectSchema builds a VideoObject. YouTube IDs fill the embed and thumbnail URLs.
func VideoObjectSchema(v Video) Schema {
	s := newSchema("VideoObject").
		set("name", v.Name).
		set("description", v.Description).
		set("uploadDate", v.UploadDate)
	if v.YouTubeID != "" {
		s["embedUrl"] = "https://www.youtube.com/embed/" + v.YouTubeID
		s["thumbnailUrl"] = fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", v.YouTubeID)
	}
	return s
}

// ScriptNode renders schemas as one ld+json script. More than one schema is
// emitted as an array.
func ScriptNode(schemas ...Schema) (*html.Node, error) {
	var v any = schemas
	if len(schemas) == 1 {
		v = schemas[0]
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// HTML escaping keeps "</script>" inside values from closing the element.
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding json-ld: %w", err)
	}

	script := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Script,
		Data:     "script",
		Attr:     []html.Attribute{{Key: "type", Val: "application/ld+json"}},
	}
	script.AppendChild(&html.Node{Type: html.RawNode, Data: string(bytes.TrimSpace(buf.Bytes()))})
	return script, nil
}
