package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jmylchreest/blockfront/internal/commerce"
	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/site"
)

// CommerceSource reads one site's storefront.
type CommerceSource interface {
	Product(ctx context.Context, handle, locale string) (*commerce.Product, error)
	Collection(ctx context.Context, handle string, first int, locale string) (*commerce.Collection, error)
	ProductHandles(ctx context.Context) ([]commerce.HandleEntry, error)
	CollectionHandles(ctx context.Context) ([]commerce.HandleEntry, error)
}

type commerceEntry struct {
	value     any // *commerce.Product, *commerce.Collection or nil for not found
	fetchedAt time.Time
}

// CommerceService serves storefront data through an in-memory revalidating
// cache with the same freshness rules as ContentService. The site is taken
// from the request context so the service can feed the renderer directly.
type CommerceService struct {
	sources    map[string]CommerceSource
	revalidate time.Duration
	staleTTL   time.Duration
	logger     *slog.Logger
	now        func() time.Time
	flight     singleflight.Group

	mu      sync.RWMutex
	entries map[string]commerceEntry
}

// NewCommerceService creates a commerce service. sources is keyed by site ID;
// sites without a storefront are simply absent.
func NewCommerceService(sources map[string]CommerceSource, cfg config.CacheConfig) *CommerceService {
	return &CommerceService{
		sources:    sources,
		revalidate: cfg.Revalidate,
		staleTTL:   cfg.StaleTTL,
		logger:     slog.Default(),
		now:        time.Now,
		entries:    make(map[string]commerceEntry),
	}
}

// WithLogger sets the logger for the service.
func (s *CommerceService) WithLogger(logger *slog.Logger) *CommerceService {
	s.logger = logger
	return s
}

// Source returns the storefront of a site.
func (s *CommerceService) Source(siteID string) (CommerceSource, bool) {
	src, ok := s.sources[siteID]
	return src, ok && src != nil
}

func (s *CommerceService) sourceFor(ctx context.Context) (*site.Site, CommerceSource, error) {
	st := site.FromContext(ctx)
	if st == nil {
		return nil, nil, ErrNoSite
	}
	src, ok := s.Source(st.ID)
	if !ok {
		return nil, nil, fmt.Errorf("site %s: %w", st.ID, ErrNoStore)
	}
	return st, src, nil
}

// Product returns a product of the context's site. A missing product yields
// commerce.ErrNotFound.
func (s *CommerceService) Product(ctx context.Context, handle, locale string) (*commerce.Product, error) {
	st, src, err := s.sourceFor(ctx)
	if err != nil {
		return nil, err
	}
	v, err := s.cached(ctx, cacheKey(st.ID, "product", handle, locale), func(ctx context.Context) (any, error) {
		return src.Product(ctx, handle, locale)
	})
	if err != nil {
		return nil, err
	}
	p, _ := v.(*commerce.Product)
	if p == nil {
		return nil, commerce.ErrNotFound
	}
	return p, nil
}

// Collection returns a collection of the context's site with its first
// products.
func (s *CommerceService) Collection(ctx context.Context, handle string, first int, locale string) (*commerce.Collection, error) {
	st, src, err := s.sourceFor(ctx)
	if err != nil {
		return nil, err
	}
	v, err := s.cached(ctx, cacheKey(st.ID, "collection", handle, locale, strconv.Itoa(first)), func(ctx context.Context) (any, error) {
		return src.Collection(ctx, handle, first, locale)
	})
	if err != nil {
		return nil, err
	}
	c, _ := v.(*commerce.Collection)
	if c == nil {
		return nil, commerce.ErrNotFound
	}
	return c, nil
}

func cacheKey(parts ...string) string {
	return strings.Join(parts, "\x00")
}

// cached runs fetch through the cache. Not found results are cached as nil.
func (s *CommerceService) cached(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	now := s.now()
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if ok && now.Sub(entry.fetchedAt) < s.revalidate {
		return entry.value, nil
	}

	v, err := shared(ctx, &s.flight, key, func(ctx context.Context) (any, error) {
		v, err := fetch(ctx)
		if errors.Is(err, commerce.ErrNotFound) {
			v, err = nil, nil
		}
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.entries[key] = commerceEntry{value: v, fetchedAt: s.now()}
		s.mu.Unlock()
		return v, nil
	})
	if err == nil {
		return v, nil
	}
	if ok && now.Sub(entry.fetchedAt) < s.staleTTL {
		s.logger.WarnContext(ctx, "serving stale storefront data", slog.String("error", err.Error()))
		return entry.value, nil
	}
	return nil, err
}

// ProductHandles lists every product handle of a site.
func (s *CommerceService) ProductHandles(ctx context.Context, siteID string) ([]commerce.HandleEntry, error) {
	src, ok := s.Source(siteID)
	if !ok {
		return nil, nil
	}
	return src.ProductHandles(ctx)
}

// CollectionHandles lists every collection handle of a site.
func (s *CommerceService) CollectionHandles(ctx context.Context, siteID string) ([]commerce.HandleEntry, error) {
	src, ok := s.Source(siteID)
	if !ok {
		return nil, nil
	}
	return src.CollectionHandles(ctx)
}

// Invalidate drops the cached entries of a site. An empty handle drops all
// of them.
func (s *CommerceService) Invalidate(siteID, handle string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.entries {
		if !keyMatches(key, siteID, handle) {
			continue
		}
		delete(s.entries, key)
		n++
	}
	return n
}

// keyMatches compares the site and handle parts of a cache key.
func keyMatches(key, siteID, handle string) bool {
	parts := strings.Split(key, "\x00")
	if parts[0] != siteID {
		return false
	}
	return handle == "" || len(parts) > 2 && parts[2] == handle
}

// Purge drops entries older than the stale TTL.
func (s *CommerceService) Purge() int {
	cutoff := s.now().Add(-s.staleTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, e := range s.entries {
		if e.fetchedAt.Before(cutoff) {
			delete(s.entries, key)
			n++
		}
	}
	return n
}
