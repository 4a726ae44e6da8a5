package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/models"
	"github.com/jmylchreest/blockfront/internal/repository"
	"github.com/jmylchreest/blockfront/internal/site"
)

// listKey is the cache key of a query without a URL path or fields.
const listKey = "*"

// ContentSource reads one site's page builder space.
type ContentSource interface {
	Fetch(ctx context.Context, model string, q cms.Query) ([]cms.Content, error)
	List(ctx context.Context, model string, q cms.Query) ([]cms.Content, error)
}

// ContentService serves page builder content through a revalidating cache.
// Fresh entries are served from the database. Stale entries are refetched,
// and while the upstream is failing a stale copy younger than the stale TTL
// is served instead.
type ContentService struct {
	repo       repository.ContentRepository
	sources    map[string]ContentSource
	revalidate time.Duration
	staleTTL   time.Duration
	logger     *slog.Logger
	now        func() time.Time
	flight     singleflight.Group
}

// NewContentService creates a content service. sources is keyed by site ID.
func NewContentService(repo repository.ContentRepository, sources map[string]ContentSource, cfg config.CacheConfig) *ContentService {
	return &ContentService{
		repo:       repo,
		sources:    sources,
		revalidate: cfg.Revalidate,
		staleTTL:   cfg.StaleTTL,
		logger:     slog.Default(),
		now:        time.Now,
	}
}

// WithLogger sets the logger for the service.
func (s *ContentService) WithLogger(logger *slog.Logger) *ContentService {
	s.logger = logger
	return s
}

// Source returns the content source of a site.
func (s *ContentService) Source(siteID string) (ContentSource, bool) {
	src, ok := s.sources[siteID]
	return src, ok && src != nil
}

// Get returns the entries of model matching q. A nil result with a nil error
// means nothing matched, or the upstream failed with no usable stale copy.
func (s *ContentService) Get(ctx context.Context, st *site.Site, model string, q cms.Query) ([]cms.Content, error) {
	src, ok := s.Source(st.ID)
	if !ok {
		return nil, fmt.Errorf("site %s: %w", st.ID, ErrNoContentSource)
	}

	key := repository.ContentKey{SiteID: st.ID, Model: model, Locale: q.Locale, CacheKey: q.Key()}
	if key.CacheKey == "" {
		key.CacheKey = listKey
	}
	log := s.logger.With(
		slog.String("site", st.ID),
		slog.String("model", model),
		slog.String("key", key.CacheKey),
		slog.String("locale", key.Locale),
	)

	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "content cache read failed", slog.String("error", err.Error()))
		entry = nil
	}
	now := s.now()
	if entry != nil && entry.Fresh(now, s.revalidate) {
		return decodeEntry(entry)
	}

	flightKey := fmt.Sprintf("%s\x00%s\x00%s\x00%s", key.SiteID, key.Model, key.Locale, key.CacheKey)
	v, err := shared(ctx, &s.flight, flightKey, func(ctx context.Context) (any, error) {
		results, err := src.Fetch(ctx, model, q)
		if err != nil {
			return nil, err
		}
		s.store(ctx, log, key, results)
		return results, nil
	})
	if err == nil {
		results, _ := v.([]cms.Content)
		return results, nil
	}

	if entry != nil && now.Sub(entry.FetchedAt) < s.staleTTL {
		log.WarnContext(ctx, "serving stale content",
			slog.String("error", err.Error()),
			slog.Duration("age", now.Sub(entry.FetchedAt)),
		)
		return decodeEntry(entry)
	}
	log.WarnContext(ctx, "content unavailable", slog.String("error", err.Error()))
	return nil, nil
}

func (s *ContentService) store(ctx context.Context, log *slog.Logger, key repository.ContentKey, results []cms.Content) {
	payload, err := json.Marshal(results)
	if err != nil {
		log.WarnContext(ctx, "encoding content for cache", slog.String("error", err.Error()))
		return
	}
	entry := &models.ContentEntry{
		SiteID:    key.SiteID,
		Model:     key.Model,
		Locale:    key.Locale,
		CacheKey:  key.CacheKey,
		Payload:   payload,
		NotFound:  len(results) == 0,
		FetchedAt: s.now(),
	}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		log.WarnContext(ctx, "content cache write failed", slog.String("error", err.Error()))
	}
}

func decodeEntry(e *models.ContentEntry) ([]cms.Content, error) {
	if e.NotFound {
		return nil, nil
	}
	var results []cms.Content
	if err := json.Unmarshal(e.Payload, &results); err != nil {
		return nil, fmt.Errorf("decoding cached %s content: %w", e.Model, err)
	}
	return results, nil
}

// One returns the first entry matching q, or nil.
func (s *ContentService) One(ctx context.Context, st *site.Site, model string, q cms.Query) (*cms.Content, error) {
	q.Limit = 1
	results, err := s.Get(ctx, st, model, q)
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return &results[0], nil
}

// Page returns the entry of model targeted at urlPath, or nil.
func (s *ContentService) Page(ctx context.Context, st *site.Site, model, urlPath, locale string) (*cms.Content, error) {
	return s.One(ctx, st, model, cms.Query{URLPath: urlPath, Locale: locale})
}

// Invalidate drops cached entries of model for a site. An empty key drops
// every entry of the model.
func (s *ContentService) Invalidate(ctx context.Context, siteID, model, key string) (int64, error) {
	n, err := s.repo.Delete(ctx, siteID, model, key)
	if err != nil {
		return 0, fmt.Errorf("invalidating %s/%s: %w", siteID, model, err)
	}
	s.logger.InfoContext(ctx, "content invalidated",
		slog.String("site", siteID),
		slog.String("model", model),
		slog.String("key", key),
		slog.Int64("entries", n),
	)
	return n, nil
}

// Purge deletes entries too old to be served even as stale copies.
func (s *ContentService) Purge(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteOlderThan(ctx, s.now().Add(-s.staleTTL))
	if err != nil {
		return 0, fmt.Errorf("purging content cache: %w", err)
	}
	return n, nil
}

// Count returns the number of cached entries for a site.
func (s *ContentService) Count(ctx context.Context, siteID string) (int64, error) {
	return s.repo.Count(ctx, siteID)
}

// List walks every entry of model for a site. Listings bypass the cache.
func (s *ContentService) List(ctx context.Context, st *site.Site, model string, q cms.Query) ([]cms.Content, error) {
	src, ok := s.Source(st.ID)
	if !ok {
		return nil, fmt.Errorf("site %s: %w", st.ID, ErrNoContentSource)
	}
	results, err := src.List(ctx, model, q)
	if err != nil {
		return nil, fmt.Errorf("listing %s for %s: %w", model, st.ID, err)
	}
	return results, nil
}
