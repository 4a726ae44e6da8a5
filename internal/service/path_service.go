package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/commerce"
	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/render"
	"github.com/jmylchreest/blockfront/internal/site"
	"github.com/jmylchreest/blockfront/internal/sitemap"
)

// PathKind names the route a static path belongs to.
type PathKind string

const (
	PathPage       PathKind = "page"
	PathArticle    PathKind = "article"
	PathProduct    PathKind = "product"
	PathCollection PathKind = "collection"
)

// PathEntry is one renderable URL of a site.
type PathEntry struct {
	Kind   PathKind `json:"kind"`
	Path   string   `json:"path" doc:"Path without the locale prefix"`
	Locale string   `json:"locale"`
	URL    string   `json:"url" doc:"Absolute URL"`
	// Key is the slug or handle for articles, products and collections.
	Key          string    `json:"key,omitempty"`
	LastModified time.Time `json:"last_modified,omitzero"`
	NoIndex      bool      `json:"no_index,omitempty"`
}

// PathService enumerates every static path of a site.
type PathService struct {
	content     *ContentService
	commerce    *CommerceService
	models      config.BuilderConfig
	concurrency int
	logger      *slog.Logger
}

// NewPathService creates a path service. concurrency bounds the number of
// upstream listings in flight.
func NewPathService(content *ContentService, commerce *CommerceService, models config.BuilderConfig, concurrency int) *PathService {
	return &PathService{
		content:     content,
		commerce:    commerce,
		models:      models,
		concurrency: max(concurrency, 1),
		logger:      slog.Default(),
	}
}

// WithLogger sets the logger for the service.
func (s *PathService) WithLogger(logger *slog.Logger) *PathService {
	s.logger = logger
	return s
}

// StaticPaths lists pages and articles in every locale, plus products and
// collections when the site has a store. Storefront failures are logged and
// leave those paths out; page builder failures fail the listing.
func (s *PathService) StaticPaths(ctx context.Context, st *site.Site) ([]PathEntry, error) {
	var (
		mu  sync.Mutex
		out []PathEntry
	)
	add := func(entries ...PathEntry) {
		mu.Lock()
		out = append(out, entries...)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, locale := range st.Locales {
		g.Go(func() error {
			pages, err := s.content.List(gctx, st, s.models.PageModel, cms.Query{Locale: locale, OmitBlocks: true})
			if err != nil {
				return err
			}
			for _, p := range pages {
				if p.Data.URL == "" {
					continue
				}
				add(s.entry(st, PathPage, p.Data.URL, "", locale, p.Updated(), p.Data.NoIndex))
			}
			return nil
		})
		if s.models.ArticleModel == "" {
			continue
		}
		g.Go(func() error {
			articles, err := s.content.List(gctx, st, s.models.ArticleModel, cms.Query{Locale: locale, OmitBlocks: true})
			if err != nil {
				return err
			}
			for _, a := range articles {
				if a.Data.Slug == "" {
					continue
				}
				add(s.entry(st, PathArticle, render.ArticlePath(a.Data.Slug), a.Data.Slug, locale, a.Updated(), a.Data.NoIndex))
			}
			return nil
		})
	}

	if st.HasStore() {
		g.Go(func() error {
			handles, err := s.commerce.ProductHandles(gctx, st.ID)
			s.addHandles(gctx, st, PathProduct, handles, err, add)
			return nil
		})
		g.Go(func() error {
			handles, err := s.commerce.CollectionHandles(gctx, st.ID)
			s.addHandles(gctx, st, PathCollection, handles, err, add)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("enumerating paths of %s: %w", st.ID, err)
	}

	slices.SortFunc(out, func(a, b PathEntry) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Locale, b.Locale))
	})
	return out, nil
}

func (s *PathService) addHandles(ctx context.Context, st *site.Site, kind PathKind, handles []commerce.HandleEntry, err error, add func(...PathEntry)) {
	if err != nil {
		s.logger.WarnContext(ctx, "storefront listing failed, skipping",
			slog.String("site", st.ID),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
		return
	}
	entries := make([]PathEntry, 0, len(handles)*len(st.Locales))
	for _, h := range handles {
		path := render.ProductPath(h.Handle)
		if kind == PathCollection {
			path = render.CollectionPath(h.Handle)
		}
		for _, locale := range st.Locales {
			entries = append(entries, s.entry(st, kind, path, h.Handle, locale, h.UpdatedAt, false))
		}
	}
	add(entries...)
}

func (s *PathService) entry(st *site.Site, kind PathKind, path, key, locale string, modified time.Time, noIndex bool) PathEntry {
	return PathEntry{
		Kind:         kind,
		Path:         path,
		Locale:       locale,
		URL:          st.URL(locale, path),
		Key:          key,
		LastModified: modified,
		NoIndex:      noIndex,
	}
}

// Warm pre-fetches the content of every static path through the caches and
// returns the number of paths visited. Individual fetch failures are logged
// by the caches and do not stop the run.
func (s *PathService) Warm(ctx context.Context, st *site.Site, pages *PageService) (int, error) {
	entries, err := s.StaticPaths(ctx, st)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var err error
			switch e.Kind {
			case PathPage:
				_, _, err = pages.Page(gctx, st, e.Locale, e.Path)
			case PathArticle:
				_, _, err = pages.Article(gctx, st, e.Locale, e.Key)
			case PathProduct:
				_, _, err = pages.Product(gctx, st, e.Locale, e.Key)
			case PathCollection:
				_, _, err = pages.Collection(gctx, st, e.Locale, e.Key)
			}
			if err != nil {
				s.logger.WarnContext(gctx, "warming path",
					slog.String("site", st.ID),
					slog.String("url", e.URL),
					slog.String("error", err.Error()),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Sitemap builds the sitemap of a site from its static paths.
func (s *PathService) Sitemap(ctx context.Context, st *site.Site) (*sitemap.URLSet, error) {
	paths, err := s.StaticPaths(ctx, st)
	if err != nil {
		return nil, err
	}
	entries := make([]sitemap.Entry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, sitemap.Entry{
			Path:         p.Path,
			Locale:       p.Locale,
			LastModified: p.LastModified,
			NoIndex:      p.NoIndex,
		})
	}
	return sitemap.Build(st, entries), nil
}
