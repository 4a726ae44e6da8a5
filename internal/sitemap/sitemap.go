// Package sitemap renders sitemaps.org URL sets with hreflang alternates and
// the robots.txt that points to them.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/jmylchreest/blockfront/internal/site"
)

// Path is where the sitemap is served.
const Path = "/sitemap.xml"

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNS   = "http://www.w3.org/1999/xhtml"
)

// Entry is one localized page to list.
type Entry struct {
	Path         string
	Locale       string
	LastModified time.Time
	NoIndex      bool
}

// URLSet is the root element of a sitemap.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	XHTML   string   `xml:"xmlns:xhtml,attr"`
	URLs    []URL    `xml:"url"`
}

// URL is one <url> element.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	Alternates []Link `xml:"xhtml:link"`
}

// Link is an hreflang alternate.
type Link struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// Build lists every indexable entry. Each URL carries alternates for the
// locales its path exists in, plus x-default when the default locale is one
// of them.
func Build(st *site.Site, entries []Entry) *URLSet {
	locales := make(map[string][]string)
	for _, e := range entries {
		if e.NoIndex {
			continue
		}
		if !slices.Contains(locales[e.Path], e.Locale) {
			locales[e.Path] = append(locales[e.Path], e.Locale)
		}
	}

	set := &URLSet{XMLNS: sitemapNS, XHTML: xhtmlNS}
	for _, e := range entries {
		if e.NoIndex {
			continue
		}
		u := URL{Loc: st.URL(e.Locale, e.Path)}
		if !e.LastModified.IsZero() {
			u.LastMod = e.LastModified.UTC().Format(time.RFC3339)
		}
		variants := locales[e.Path]
		if len(variants) > 1 {
			for _, l := range variants {
				u.Alternates = append(u.Alternates, Link{Rel: "alternate", Hreflang: l, Href: st.URL(l, e.Path)})
			}
			if slices.ContainsFunc(variants, st.IsDefaultLocale) {
				u.Alternates = append(u.Alternates, Link{Rel: "alternate", Hreflang: "x-default", Href: st.URL(st.DefaultLocale, e.Path)})
			}
		}
		set.URLs = append(set.URLs, u)
	}
	return set
}

// Write encodes the set with an XML declaration.
func (s *URLSet) Write(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing XML declaration: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding sitemap: %w", err)
	}
	return enc.Close()
}

// Robots returns the robots.txt of a site.
func Robots(st *site.Site) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	fmt.Fprintf(&b, "\nSitemap: %s%s\n", st.BaseURL, Path)
	return b.String()
}
