package http

import (
	"github.com/jmylchreest/blockfront/internal/http/handlers"
)

// Handlers groups the handlers mounted on the server. Nil handlers are
// skipped.
type Handlers struct {
	Health          *handlers.HealthHandler
	Editor          *handlers.EditorHandler
	Theme           *handlers.ThemeHandler
	Revalidate      *handlers.RevalidateHandler
	Paths           *handlers.PathsHandler
	CircuitBreakers *handlers.CircuitBreakerHandler
	System          *handlers.SystemHandler
	SEO             *handlers.SEOHandler
	Static          *handlers.StaticHandler
	Storefront      *handlers.StorefrontHandler
}

// openAPISpecPath is served by huma from its default OpenAPI path.
const openAPISpecPath = "/openapi.json"

// Mount registers the API operations, the plain routes and the storefront.
// The storefront owns the catch-all route and is mounted last.
func (s *Server) Mount(h Handlers) {
	api := s.API()
	if h.Health != nil {
		h.Health.Register(api)
	}
	if h.Editor != nil {
		h.Editor.Register(api)
	}
	if h.Theme != nil {
		h.Theme.Register(api)
		h.Theme.RegisterChiRoutes(s.router)
	}
	if h.Revalidate != nil {
		h.Revalidate.Register(api)
	}
	if h.Paths != nil {
		h.Paths.Register(api)
	}
	if h.CircuitBreakers != nil {
		h.CircuitBreakers.Register(api)
	}
	if h.System != nil {
		h.System.Register(api)
	}

	s.router.Get(handlers.DocsPath, handlers.NewDocsHandler("blockfront API", openAPISpecPath).ServeHTTP)

	if h.SEO != nil {
		h.SEO.RegisterChiRoutes(s.router)
	}
	if h.Static != nil {
		h.Static.RegisterChiRoutes(s.router)
	}
	if h.Storefront != nil {
		h.Storefront.RegisterChiRoutes(s.router)
	}
}
