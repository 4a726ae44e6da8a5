// Package catalog declares this site's page builder components, their menus
// and the default design tokens.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/jmylchreest/blockfront/internal/registry"
)

//go:embed tokens.yaml
var defaultTokens []byte

// Components returns every descriptor in registration order. Core:Button is
// first so the themed Button replaces the editor default.
func Components() []registry.Component {
	out := []registry.Component{coreButton(), buttonComponent()}
	out = append(out, layoutComponents()...)
	out = append(out, uiComponents()...)
	out = append(out, ctaComponents()...)
	out = append(out, navigationComponents()...)
	out = append(out, seoComponents()...)
	out = append(out, designKitOverview())
	return out
}

// Menus maps each insert menu to its components, in display order.
func Menus() map[string][]string {
	return map[string][]string{
		registry.MenuLayout: {
			"Section", "Container", "Columns", "Grid", "Spacer", "Divider",
			"ThemeProvider", "Hero", "Banner", "SplitBanner",
		},
		registry.MenuUI: {
			"Heading", "RichText", "Image", "Video", "YouTubeEmbed", "Accordion",
			"AccordionItem", "Tabs", "Tab", "Tile", "TileGrid", "Card", "Carousel",
			"CarouselSlide", "Testimonial", "Badge", "ProductTile", "CollectionGrid",
		},
		registry.MenuCTA:        {"Button", "ButtonGroup", "CTABanner", "NewsletterSignup", "Link"},
		registry.MenuNavigation: {"Header", "NavigationMenu", "NavigationItem", "Footer", "FooterColumn", "Breadcrumbs", "LocaleSwitcher"},
		registry.MenuSEO: {
			"OrganizationSchema", "ProductSchema", "ArticleSchema", "FAQSchema",
			"BreadcrumbSchema", "EventSchema", "VideoSchema", "MetaTags",
		},
	}
}

// DefaultTokens decodes the embedded design token set.
func DefaultTokens() (registry.DesignTokenSet, error) {
	return registry.LoadDesignTokens(bytes.NewReader(defaultTokens))
}

// Options controls how the catalog is loaded.
type Options struct {
	// TokenOverrides are merged over the default tokens.
	TokenOverrides *registry.DesignTokenSet
	// TokensOptional lets editors enter values outside the token set.
	TokensOptional bool
}

// Register fills r with the catalog.
func Register(r *registry.Registry, opts Options) error {
	if err := r.RegisterAll(Components()); err != nil {
		return fmt.Errorf("registering components: %w", err)
	}
	for _, menu := range []string{registry.MenuLayout, registry.MenuUI, registry.MenuCTA, registry.MenuNavigation, registry.MenuSEO} {
		if err := r.AddToMenu(menu, Menus()[menu]...); err != nil {
			return fmt.Errorf("building insert menus: %w", err)
		}
	}

	tokens, err := DefaultTokens()
	if err != nil {
		return err
	}
	if opts.TokenOverrides != nil {
		tokens = tokens.Merge(*opts.TokenOverrides)
	}
	r.SetDesignTokens(tokens, opts.TokensOptional)
	return nil
}

// NewRegistry returns a registry loaded with the catalog.
func NewRegistry(opts Options) (*registry.Registry, error) {
	r := registry.New()
	if err := Register(r, opts); err != nil {
		return nil, err
	}
	return r, nil
}
