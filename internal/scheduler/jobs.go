package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/blockfront/internal/service"
	"github.com/jmylchreest/blockfront/internal/site"
)

// WarmFunc pre-fetches every path of one site and returns the number of
// paths visited.
type WarmFunc func(ctx context.Context, st *site.Site) (int, error)

// WarmJob refreshes the caches of every site by visiting its static paths.
type WarmJob struct {
	sites  []*site.Site
	warm   WarmFunc
	logger *slog.Logger
}

// NewWarmJob creates a warm job backed by the path and page services.
func NewWarmJob(sites []*site.Site, paths *service.PathService, pages *service.PageService) *WarmJob {
	return NewWarmJobFunc(sites, func(ctx context.Context, st *site.Site) (int, error) {
		return paths.Warm(ctx, st, pages)
	})
}

// NewWarmJobFunc creates a warm job around warm.
func NewWarmJobFunc(sites []*site.Site, warm WarmFunc) *WarmJob {
	return &WarmJob{sites: sites, warm: warm, logger: slog.Default()}
}

// WithLogger sets the logger.
func (j *WarmJob) WithLogger(logger *slog.Logger) *WarmJob {
	j.logger = logger
	return j
}

// Name implements Job.
func (j *WarmJob) Name() string { return "cache-warm" }

// Run warms each site in turn. A failing site does not stop the others; the
// errors are joined.
func (j *WarmJob) Run(ctx context.Context) (string, error) {
	var (
		total int
		errs  []error
	)
	for _, st := range j.sites {
		n, err := j.warm(ctx, st)
		if err != nil {
			j.logger.Warn("warming site failed", slog.String("site", st.ID), slog.Any("error", err))
			errs = append(errs, fmt.Errorf("site %s: %w", st.ID, err))
			continue
		}
		total += n
	}
	return fmt.Sprintf("warmed %d paths across %d sites", total, len(j.sites)), errors.Join(errs...)
}

// ContentPurger drops expired content cache entries.
type ContentPurger interface {
	Purge(ctx context.Context) (int64, error)
}

// CommercePurger drops expired storefront cache entries.
type CommercePurger interface {
	Purge() int
}

// PurgeJob removes cache entries too old to be served even as stale copies.
type PurgeJob struct {
	content  ContentPurger
	commerce CommercePurger
}

// NewPurgeJob creates a purge job. Either purger may be nil.
func NewPurgeJob(content ContentPurger, commerce CommercePurger) *PurgeJob {
	return &PurgeJob{content: content, commerce: commerce}
}

// Name implements Job.
func (j *PurgeJob) Name() string { return "cache-purge" }

// Run implements Job.
func (j *PurgeJob) Run(ctx context.Context) (string, error) {
	var content int64
	if j.content != nil {
		n, err := j.content.Purge(ctx)
		if err != nil {
			return "", err
		}
		content = n
	}
	commerce := 0
	if j.commerce != nil {
		commerce = j.commerce.Purge()
	}
	return fmt.Sprintf("purged %d content and %d storefront entries", content, commerce), nil
}
