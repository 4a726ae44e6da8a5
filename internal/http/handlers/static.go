package handlers

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/blockfront/internal/assets"
)

// FaviconPath is where the site icon is served.
const FaviconPath = "/favicon.svg"

// StaticHandler serves the embedded static assets under /static/ and the
// favicon at the root.
type StaticHandler struct {
	files fs.FS
}

// NewStaticHandler creates a new static asset handler.
func NewStaticHandler() (*StaticHandler, error) {
	files, err := assets.GetStaticFS()
	if err != nil {
		return nil, err
	}
	return &StaticHandler{files: files}, nil
}

// RegisterChiRoutes registers the static routes.
func (h *StaticHandler) RegisterChiRoutes(r chi.Router) {
	r.Get("/static/*", h.ServeHTTP)
	r.Get(FaviconPath, h.ServeHTTP)
}

// ServeHTTP serves one embedded file.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filePath := strings.TrimPrefix(path.Clean(r.URL.Path), "/static")
	filePath = strings.TrimPrefix(filePath, "/")
	if filePath == "" {
		http.NotFound(w, r)
		return
	}

	data, err := fs.ReadFile(h.files, filePath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	h.setHeaders(w, filePath)
	_, _ = w.Write(data)
}

// setHeaders sets appropriate cache and content-type headers.
func (h *StaticHandler) setHeaders(w http.ResponseWriter, filePath string) {
	w.Header().Set("Content-Type", assets.GetContentType(filePath))

	switch {
	case strings.HasSuffix(filePath, ".woff2"):
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	case strings.HasSuffix(filePath, ".css"):
		w.Header().Set("Cache-Control", "public, max-age=3600")
	default:
		w.Header().Set("Cache-Control", "public, max-age=86400")
	}
}
