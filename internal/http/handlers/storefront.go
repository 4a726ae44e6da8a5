package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/blockfront/internal/http/middleware"
	"github.com/jmylchreest/blockfront/internal/render"
	"github.com/jmylchreest/blockfront/internal/site"
)

// PageSource assembles the page for each storefront route.
type PageSource interface {
	Page(ctx context.Context, st *site.Site, locale, path string) (render.Page, bool, error)
	Article(ctx context.Context, st *site.Site, locale, slug string) (render.Page, bool, error)
	Product(ctx context.Context, st *site.Site, locale, handle string) (render.Page, bool, error)
	Collection(ctx context.Context, st *site.Site, locale, handle string) (render.Page, bool, error)
}

// DefaultPageCacheControl lets shared caches keep a page briefly and serve it
// stale while they revalidate.
const DefaultPageCacheControl = "public, max-age=0, s-maxage=60, stale-while-revalidate=3600"

// StorefrontHandler renders storefront pages.
type StorefrontHandler struct {
	pages        PageSource
	renderer     *render.Renderer
	cacheControl string
	logger       *slog.Logger
}

// NewStorefrontHandler creates a new storefront handler.
func NewStorefrontHandler(pages PageSource, renderer *render.Renderer) *StorefrontHandler {
	return &StorefrontHandler{
		pages:        pages,
		renderer:     renderer,
		cacheControl: DefaultPageCacheControl,
		logger:       slog.Default(),
	}
}

// WithLogger sets the logger for the handler.
func (h *StorefrontHandler) WithLogger(logger *slog.Logger) *StorefrontHandler {
	h.logger = logger
	return h
}

// WithCacheControl sets the Cache-Control header of found pages.
func (h *StorefrontHandler) WithCacheControl(v string) *StorefrontHandler {
	h.cacheControl = v
	return h
}

// RegisterChiRoutes registers the page routes. The catch-all serves page
// builder pages and must be registered after every other route.
func (h *StorefrontHandler) RegisterChiRoutes(r chi.Router) {
	r.Get("/products/{handle}", h.serve(func(ctx context.Context, st *site.Site, locale string, r *http.Request) (render.Page, bool, error) {
		return h.pages.Product(ctx, st, locale, chi.URLParam(r, "handle"))
	}))
	r.Get("/collections/{handle}", h.serve(func(ctx context.Context, st *site.Site, locale string, r *http.Request) (render.Page, bool, error) {
		return h.pages.Collection(ctx, st, locale, chi.URLParam(r, "handle"))
	}))
	r.Get("/articles/{slug}", h.serve(func(ctx context.Context, st *site.Site, locale string, r *http.Request) (render.Page, bool, error) {
		return h.pages.Article(ctx, st, locale, chi.URLParam(r, "slug"))
	}))
	r.Get("/*", h.serve(func(ctx context.Context, st *site.Site, locale string, r *http.Request) (render.Page, bool, error) {
		return h.pages.Page(ctx, st, locale, r.URL.Path)
	}))
}

type pageFunc func(ctx context.Context, st *site.Site, locale string, r *http.Request) (render.Page, bool, error)

func (h *StorefrontHandler) serve(fn pageFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}

		ctx := r.Context()
		st := site.FromContext(ctx)
		if st == nil {
			http.Error(w, "no site for host", http.StatusMisdirectedRequest)
			return
		}
		locale := middleware.RequestLocale(ctx)

		if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
			target := st.Path(locale, canonicalPath(p))
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}

		page, found, err := fn(ctx, st, locale, r)
		if err != nil {
			h.logger.ErrorContext(ctx, "loading page failed",
				slog.String("path", r.URL.Path),
				slog.Any("error", err))
			w.Header().Set("Retry-After", "30")
			http.Error(w, "upstream content is unavailable", http.StatusBadGateway)
			return
		}

		body, err := h.renderer.Bytes(ctx, page)
		if err != nil {
			h.logger.ErrorContext(ctx, "rendering page failed",
				slog.String("path", r.URL.Path),
				slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		status := http.StatusOK
		if found {
			w.Header().Set("Cache-Control", h.cacheControl)
		} else {
			status = http.StatusNotFound
			w.Header().Set("Cache-Control", "no-cache")
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("Content-Language", locale)
		w.Header().Add("Vary", "Accept-Language, Cookie")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}
}

// canonicalPath drops trailing slashes and collapses leading slashes and
// backslashes into one, so the redirect target stays on this host.
func canonicalPath(p string) string {
	return "/" + strings.TrimRight(strings.TrimLeft(p, "/\\"), "/")
}
