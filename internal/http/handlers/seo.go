package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/blockfront/internal/site"
	"github.com/jmylchreest/blockfront/internal/sitemap"
)

// SitemapSource builds a site's sitemap.
type SitemapSource interface {
	Sitemap(ctx context.Context, st *site.Site) (*sitemap.URLSet, error)
}

// SEOHandler serves the sitemap and robots.txt of the site serving the host.
type SEOHandler struct {
	sitemaps SitemapSource
	logger   *slog.Logger
}

// NewSEOHandler creates a new SEO handler.
func NewSEOHandler(sitemaps SitemapSource) *SEOHandler {
	return &SEOHandler{sitemaps: sitemaps, logger: slog.Default()}
}

// WithLogger sets the logger for the handler.
func (h *SEOHandler) WithLogger(logger *slog.Logger) *SEOHandler {
	h.logger = logger
	return h
}

// RegisterChiRoutes registers the sitemap and robots routes.
func (h *SEOHandler) RegisterChiRoutes(r chi.Router) {
	r.Get(sitemap.Path, h.serveSitemap)
	r.Get("/robots.txt", h.serveRobots)
}

func (h *SEOHandler) serveSitemap(w http.ResponseWriter, r *http.Request) {
	st := site.FromContext(r.Context())
	if st == nil {
		http.NotFound(w, r)
		return
	}

	set, err := h.sitemaps.Sitemap(r.Context(), st)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "building sitemap failed", slog.Any("error", err))
		http.Error(w, "sitemap is unavailable", http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	if err := set.Write(&buf); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(buf.Bytes())
}

func (h *SEOHandler) serveRobots(w http.ResponseWriter, r *http.Request) {
	st := site.FromContext(r.Context())
	if st == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(sitemap.Robots(st)))
}
