package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/database"
	"github.com/jmylchreest/blockfront/internal/registry"
	"github.com/jmylchreest/blockfront/internal/registry/catalog"
	"github.com/jmylchreest/blockfront/internal/repository"
	"github.com/jmylchreest/blockfront/internal/seo"
	"github.com/jmylchreest/blockfront/internal/service"
	"github.com/jmylchreest/blockfront/internal/site"
	"github.com/jmylchreest/blockfront/pkg/httpclient"
)

// app holds the services shared by the commands that talk to upstreams.
type app struct {
	db       *database.DB
	sites    *site.Directory
	clients  *httpclient.Manager
	registry *registry.Registry
	content  *service.ContentService
	commerce *service.CommerceService
	pages    *service.PageService
	paths    *service.PathService
	themes   *service.ThemeService
}

// newApp opens the content cache and builds the service graph.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	sites, err := site.NewDirectory(cfg.Sites)
	if err != nil {
		return nil, fmt.Errorf("loading sites: %w", err)
	}

	reg, err := loadRegistry(cfg.Design)
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	clients := service.NewHTTPManager(cfg.HTTPClient, logger)
	backends := service.NewBackends(cfg, sites, clients, logger)

	content := service.NewContentService(repository.NewContentRepository(db.DB), backends.Content, cfg.Cache).
		WithLogger(logger)
	commerce := service.NewCommerceService(backends.Commerce, cfg.Cache).WithLogger(logger)

	var prober *seo.ImageProber
	if cfg.SEO.ProbeImages {
		prober = seo.NewImageProber(clients.Client(httpclient.ServiceImages), logger)
	}

	return &app{
		db:       db,
		sites:    sites,
		clients:  clients,
		registry: reg,
		content:  content,
		commerce: commerce,
		pages:    service.NewPageService(content, commerce, cfg.Builder, prober).WithLogger(logger),
		paths:    service.NewPathService(content, commerce, cfg.Builder, cfg.Cache.PathConcurrency).WithLogger(logger),
		themes:   service.NewThemeService(reg).WithLogger(logger),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		slog.Warn("closing database failed", slog.Any("error", err))
	}
}

// loadRegistry builds the component registry, merging the design token file
// over the built-in tokens when one is configured.
func loadRegistry(design config.DesignConfig) (*registry.Registry, error) {
	opts := catalog.Options{TokensOptional: design.TokensOptional}
	if design.TokensFile != "" {
		f, err := os.Open(design.TokensFile)
		if err != nil {
			return nil, fmt.Errorf("opening design tokens: %w", err)
		}
		defer f.Close()

		tokens, err := registry.LoadDesignTokens(f)
		if err != nil {
			return nil, fmt.Errorf("loading design tokens from %s: %w", design.TokensFile, err)
		}
		opts.TokenOverrides = &tokens
	}

	reg, err := catalog.NewRegistry(opts)
	if err != nil {
		return nil, fmt.Errorf("building component registry: %w", err)
	}
	return reg, nil
}
