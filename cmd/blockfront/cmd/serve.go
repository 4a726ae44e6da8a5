package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	internalhttp "github.com/jmylchreest/blockfront/internal/http"
	"github.com/jmylchreest/blockfront/internal/http/handlers"
	"github.com/jmylchreest/blockfront/internal/render"
	"github.com/jmylchreest/blockfront/internal/scheduler"
	"github.com/jmylchreest/blockfront/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the blockfront server",
	Long: `Start the blockfront HTTP server.

The server provides:
- Rendered storefront pages for every configured site
- Editor API with the component manifest and design tokens
- Revalidation webhook for the page builder and the store
- Health check endpoints
- OpenAPI documentation at /docs`,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "host to bind to (overrides server.host)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides server.port)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := slog.Default()

	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	renderer := render.NewRenderer(a.registry, a.commerce, logger)

	health := handlers.NewHealthHandler(version.Version).
		WithDB(a.db).
		WithHTTPManager(a.clients)

	if cfg.Cache.WarmEnabled {
		sched, err := scheduler.New(cfg.Cache.WarmSchedule,
			scheduler.NewWarmJob(a.sites.All(), a.paths, a.pages).WithLogger(logger),
			scheduler.NewPurgeJob(a.content, a.commerce),
		)
		if err != nil {
			return fmt.Errorf("creating cache warmer: %w", err)
		}
		sched.WithLogger(logger).WithRunOnStart(true)
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("starting cache warmer: %w", err)
		}
		defer sched.Stop()
		health.WithScheduler(sched)
	}

	if cfg.Revalidate.Secret == "" {
		logger.Warn("revalidate.secret is not set, the revalidation webhook is disabled")
	}

	static, err := handlers.NewStaticHandler()
	if err != nil {
		return fmt.Errorf("loading static assets: %w", err)
	}

	server := internalhttp.NewServer(internalhttp.ServerConfigFrom(cfg.Server), a.sites, logger, version.Version)
	server.Mount(internalhttp.Handlers{
		Health:          health,
		Editor:          handlers.NewEditorHandler(a.registry),
		Theme:           handlers.NewThemeHandler(a.themes),
		Revalidate:      handlers.NewRevalidateHandler(cfg.Revalidate.Secret, a.sites, a.content, a.commerce),
		Paths:           handlers.NewPathsHandler(a.paths, a.sites),
		CircuitBreakers: handlers.NewCircuitBreakerHandler(a.clients),
		System:          handlers.NewSystemHandler(a.sites),
		SEO:             handlers.NewSEOHandler(a.paths).WithLogger(logger),
		Static:          static,
		Storefront:      handlers.NewStorefrontHandler(a.pages, renderer).WithLogger(logger),
	})

	logger.Info("starting blockfront server",
		slog.String("host", cfg.Server.Host),
		slog.Int("port", cfg.Server.Port),
		slog.Int("sites", len(a.sites.All())),
		slog.Int("components", a.registry.Len()),
		slog.String("version", version.Version),
	)

	return server.ListenAndServe(ctx)
}
