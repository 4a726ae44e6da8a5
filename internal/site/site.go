// Package site resolves the configured sites served by one process and
// their locale rules.
package site

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/seo"
	"github.com/jmylchreest/blockfront/internal/theme"
)

// Site is one storefront with its own domains, locales and content space.
type Site struct {
	ID            string
	Name          string
	Domains       []string
	BaseURL       string
	Locales       []string
	DefaultLocale string
	BaseTheme     theme.Theme
	Organization  seo.Organization
	BuilderAPIKey string
	Shopify       config.ShopifySiteConfig

	matcher language.Matcher
	// matchOrder maps matcher indexes back to Locales.
	matchOrder []int
}

// New builds a Site from its configuration.
func New(c config.SiteConfig) (*Site, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("site %s: invalid base_url %q", c.ID, c.BaseURL)
	}

	baseTheme, err := theme.Parse(c.BaseTheme)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", c.ID, err)
	}
	if baseTheme == "" {
		baseTheme = theme.Default
	}

	s := &Site{
		ID:            c.ID,
		Name:          c.Name,
		Domains:       c.Domains,
		BaseURL:       strings.TrimRight(base.String(), "/"),
		Locales:       c.Locales,
		DefaultLocale: c.DefaultLocale,
		BaseTheme:     baseTheme,
		BuilderAPIKey: c.BuilderAPIKey,
		Shopify:       c.Shopify,
		Organization: seo.Organization{
			Name:   c.Organization.Name,
			URL:    strings.TrimRight(base.String(), "/"),
			Logo:   c.Organization.Logo,
			SameAs: c.Organization.SameAs,
		},
	}
	if s.Organization.Name == "" {
		s.Organization.Name = c.Name
	}

	// The matcher falls back to its first tag, so the default goes first.
	var tags []language.Tag
	for i, l := range c.Locales {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("site %s: locale %q: %w", c.ID, l, err)
		}
		if strings.EqualFold(l, c.DefaultLocale) {
			tags = append([]language.Tag{tag}, tags...)
			s.matchOrder = append([]int{i}, s.matchOrder...)
		} else {
			tags = append(tags, tag)
			s.matchOrder = append(s.matchOrder, i)
		}
	}
	s.matcher = language.NewMatcher(tags)
	return s, nil
}

// Locale returns the configured spelling of l when the site supports it.
func (s *Site) Locale(l string) (string, bool) {
	for _, candidate := range s.Locales {
		if strings.EqualFold(candidate, l) {
			return candidate, true
		}
	}
	return "", false
}

// IsDefaultLocale reports whether l is the site's default locale.
func (s *Site) IsDefaultLocale(l string) bool {
	return strings.EqualFold(l, s.DefaultLocale)
}

// MatchLocale picks the supported locale that best fits an Accept-Language
// header, or the default locale.
func (s *Site) MatchLocale(acceptLanguage string) string {
	if acceptLanguage == "" {
		return s.DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return s.DefaultLocale
	}
	_, idx, conf := s.matcher.Match(tags...)
	if conf == language.No {
		return s.DefaultLocale
	}
	return s.Locales[s.matchOrder[idx]]
}

// Path prefixes path with the locale segment. The default locale has no prefix.
func (s *Site) Path(locale, path string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	if locale == "" || s.IsDefaultLocale(locale) {
		return path
	}
	if path == "/" {
		return "/" + locale
	}
	return "/" + locale + path
}

// URL returns the absolute URL of path in locale.
func (s *Site) URL(locale, path string) string {
	return s.BaseURL + s.Path(locale, path)
}

// Alternates lists path in every locale for hreflang links.
func (s *Site) Alternates(path string) []seo.Alternate {
	out := make([]seo.Alternate, 0, len(s.Locales))
	for _, l := range s.Locales {
		out = append(out, seo.Alternate{Locale: l, URL: s.URL(l, path)})
	}
	return out
}

// HasStore reports whether the site is connected to a storefront.
func (s *Site) HasStore() bool {
	return s.Shopify.Store != "" && s.Shopify.StorefrontToken != ""
}

// Directory finds sites by ID and request host.
type Directory struct {
	sites  []*Site
	byID   map[string]*Site
	byHost map[string]*Site
}

// NewDirectory builds a directory. The first site is the fallback for
// unknown hosts.
func NewDirectory(cfgs []config.SiteConfig) (*Directory, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("no sites configured")
	}
	d := &Directory{byID: map[string]*Site{}, byHost: map[string]*Site{}}
	for _, c := range cfgs {
		s, err := New(c)
		if err != nil {
			return nil, err
		}
		if _, dup := d.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate site id %q", s.ID)
		}
		d.sites = append(d.sites, s)
		d.byID[s.ID] = s
		for _, host := range s.Domains {
			d.byHost[strings.ToLower(host)] = s
		}
	}
	return d, nil
}

// ForHost returns the site serving host, which may include a port. Unknown
// hosts get the default site.
func (d *Directory) ForHost(host string) *Site {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if s, ok := d.byHost[host]; ok {
		return s
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		if s, ok := d.byHost[h]; ok {
			return s
		}
	}
	return d.sites[0]
}

// Get returns the site with id.
func (d *Directory) Get(id string) (*Site, bool) {
	s, ok := d.byID[id]
	return s, ok
}

// Default returns the fallback site.
func (d *Directory) Default() *Site {
	return d.sites[0]
}

// All returns every site in configuration order.
func (d *Directory) All() []*Site {
	return d.sites
}

type ctxKey struct{}

// WithSite stores s in ctx.
func WithSite(ctx context.Context, s *Site) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the site stored by WithSite, or nil.
func FromContext(ctx context.Context) *Site {
	s, _ := ctx.Value(ctxKey{}).(*Site)
	return s
}
