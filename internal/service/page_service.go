package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/commerce"
	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/render"
	"github.com/jmylchreest/blockfront/internal/seo"
	"github.com/jmylchreest/blockfront/internal/site"
	"github.com/jmylchreest/blockfront/internal/theme"
)

// CollectionPageSize is the number of products shown on a collection page.
const CollectionPageSize = 48

// PageService assembles render.Page values for each route kind.
type PageService struct {
	content  *ContentService
	commerce *CommerceService
	models   config.BuilderConfig
	prober   *seo.ImageProber
	logger   *slog.Logger
}

// NewPageService creates a page service. prober may be nil to skip image
// dimension lookups.
func NewPageService(content *ContentService, commerce *CommerceService, models config.BuilderConfig, prober *seo.ImageProber) *PageService {
	return &PageService{
		content:  content,
		commerce: commerce,
		models:   models,
		prober:   prober,
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger for the service.
func (s *PageService) WithLogger(logger *slog.Logger) *PageService {
	s.logger = logger
	return s
}

// Page resolves the CMS page at path. found is false when the page builder
// has nothing for the path; the returned page is then the 404 document.
func (s *PageService) Page(ctx context.Context, st *site.Site, locale, path string) (render.Page, bool, error) {
	content, err := s.content.Page(ctx, st, s.models.PageModel, path, locale)
	if err != nil {
		return render.Page{}, false, err
	}
	if content == nil {
		return s.NotFound(ctx, st, locale, path), false, nil
	}

	p := s.base(ctx, st, locale, path)
	p.Kind = render.KindPage
	p.Content = content
	p.Theme, _ = theme.Parse(content.Data.Theme)
	s.applyContentMeta(ctx, &p.Meta, content)
	if path == "/" {
		p.Schemas = append(p.Schemas,
			seo.WebSiteSchema(st.Name, st.URL(locale, "/"), locale),
			seo.OrganizationSchema(st.Organization),
		)
	}
	return p, true, nil
}

// Article resolves the article with slug.
func (s *PageService) Article(ctx context.Context, st *site.Site, locale, slug string) (render.Page, bool, error) {
	path := render.ArticlePath(slug)
	content, err := s.content.One(ctx, st, s.models.ArticleModel, cms.Query{
		Locale: locale,
		Fields: map[string]string{"data.slug": slug},
	})
	if err != nil {
		return render.Page{}, false, err
	}
	if content == nil {
		return s.NotFound(ctx, st, locale, path), false, nil
	}

	p := s.base(ctx, st, locale, path)
	p.Kind = render.KindArticle
	p.Content = content
	p.Theme, _ = theme.Parse(content.Data.Theme)
	p.Meta.Type = "article"
	s.applyContentMeta(ctx, &p.Meta, content)

	org := st.Organization
	modified := ""
	if t := content.Updated(); !t.IsZero() {
		modified = t.UTC().Format("2006-01-02")
	}
	p.Schemas = append(p.Schemas, seo.ArticleSchema(seo.Article{
		Headline:      content.Data.Title,
		Description:   content.Data.Description,
		Image:         content.Data.Image,
		Author:        content.Data.Author,
		DatePublished: content.Data.Date,
		DateModified:  modified,
		URL:           p.Meta.Canonical,
		Publisher:     &org,
	}))
	return p, true, nil
}

// Product resolves a storefront product.
func (s *PageService) Product(ctx context.Context, st *site.Site, locale, handle string) (render.Page, bool, error) {
	path := render.ProductPath(handle)
	product, err := s.commerce.Product(site.WithSite(ctx, st), handle, locale)
	if errors.Is(err, commerce.ErrNotFound) || errors.Is(err, ErrNoStore) {
		return s.NotFound(ctx, st, locale, path), false, nil
	}
	if err != nil {
		return render.Page{}, false, err
	}

	p := s.base(ctx, st, locale, path)
	p.Kind = render.KindProduct
	p.Product = product
	p.Meta.Type = "product"
	p.Meta.Title = firstNonEmpty(product.SEO.Title, product.Title)
	p.Meta.Description = firstNonEmpty(product.SEO.Description, product.Description)
	if img := product.FeaturedImage; img != nil {
		p.Meta.Image = &seo.OGImage{URL: img.URL, Alt: img.AltText, Width: img.Width, Height: img.Height}
	}
	s.prober.Fill(ctx, p.Meta.Image)
	p.Schemas = append(p.Schemas, seo.ProductSchema(product, p.Meta.Canonical, st.Organization.Name))
	return p, true, nil
}

// Collection resolves a storefront collection with its first products.
func (s *PageService) Collection(ctx context.Context, st *site.Site, locale, handle string) (render.Page, bool, error) {
	path := render.CollectionPath(handle)
	collection, err := s.commerce.Collection(site.WithSite(ctx, st), handle, CollectionPageSize, locale)
	if errors.Is(err, commerce.ErrNotFound) || errors.Is(err, ErrNoStore) {
		return s.NotFound(ctx, st, locale, path), false, nil
	}
	if err != nil {
		return render.Page{}, false, err
	}

	p := s.base(ctx, st, locale, path)
	p.Kind = render.KindCollection
	p.Collection = collection
	p.Meta.Title = firstNonEmpty(collection.SEO.Title, collection.Title)
	p.Meta.Description = firstNonEmpty(collection.SEO.Description, collection.Description)
	if img := collection.Image; img != nil {
		p.Meta.Image = &seo.OGImage{URL: img.URL, Alt: img.AltText, Width: img.Width, Height: img.Height}
	}
	s.prober.Fill(ctx, p.Meta.Image)
	return p, true, nil
}

// NotFound returns the 404 document for path.
func (s *PageService) NotFound(ctx context.Context, st *site.Site, locale, path string) render.Page {
	p := s.base(ctx, st, locale, path)
	p.Kind = render.KindNotFound
	p.Meta.NoIndex = true
	p.Meta.Alternates = nil
	p.Meta.DefaultAlternate = ""
	return p
}

// base fills the fields shared by every document: site chrome and the
// canonical and hreflang links.
func (s *PageService) base(ctx context.Context, st *site.Site, locale, path string) render.Page {
	p := render.Page{
		Site:   st,
		Locale: locale,
		Path:   path,
		Meta: seo.Meta{
			SiteName:         st.Name,
			Canonical:        st.URL(locale, path),
			Locale:           locale,
			Alternates:       st.Alternates(path),
			DefaultAlternate: st.URL(st.DefaultLocale, path),
		},
	}
	if header := s.section(ctx, st, s.models.HeaderModel, locale); header != nil {
		p.Header = header.Data.Blocks
		p.Navigation = header.Data.Links
	}
	if footer := s.section(ctx, st, s.models.FooterModel, locale); footer != nil {
		p.Footer = footer.Data.Blocks
	}
	return p
}

// section fetches a site-wide section such as the header. Failures leave the
// default chrome in place.
func (s *PageService) section(ctx context.Context, st *site.Site, model, locale string) *cms.Content {
	if model == "" {
		return nil
	}
	content, err := s.content.One(ctx, st, model, cms.Query{Locale: locale})
	if err != nil {
		s.logger.WarnContext(ctx, "loading site section",
			slog.String("site", st.ID),
			slog.String("model", model),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return content
}

func (s *PageService) applyContentMeta(ctx context.Context, m *seo.Meta, c *cms.Content) {
	m.Title = firstNonEmpty(c.Data.Title, c.Name)
	m.Description = c.Data.Description
	m.NoIndex = c.Data.NoIndex
	if c.Data.Image != "" {
		m.Image = &seo.OGImage{URL: c.Data.Image, Alt: m.Title}
		s.prober.Fill(ctx, m.Image)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
