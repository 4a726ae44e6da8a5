package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/blockfront/internal/models"
	"github.com/jmylchreest/blockfront/internal/registry"
	"github.com/jmylchreest/blockfront/internal/render"
	"github.com/jmylchreest/blockfront/internal/service"
)

// ThemeHandler handles theme API endpoints and serves the theme stylesheet.
type ThemeHandler struct {
	themeService *service.ThemeService
}

// NewThemeHandler creates a new theme handler.
func NewThemeHandler(themeService *service.ThemeService) *ThemeHandler {
	return &ThemeHandler{
		themeService: themeService,
	}
}

// Register registers the theme routes with the Huma API.
func (h *ThemeHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listThemes",
		Method:      "GET",
		Path:        "/api/v1/themes",
		Summary:     "List all themes",
		Description: "Returns the six themes in canonical order with their palettes",
		Tags:        []string{"Themes"},
	}, h.ListThemes)

	huma.Register(api, huma.Operation{
		OperationID: "resolveTheme",
		Method:      "POST",
		Path:        "/api/v1/themes/resolve",
		Summary:     "Resolve the theme of a placement",
		Description: "Applies the theme rule to a component placed inside the given providers",
		Tags:        []string{"Themes"},
	}, h.ResolveTheme)
}

// RegisterChiRoutes registers the stylesheet route. CSS serving needs
// custom content-type and caching headers.
func (h *ThemeHandler) RegisterChiRoutes(r chi.Router) {
	r.Get(render.StylesheetPath, h.serveStylesheet)
}

// ListThemesInput is the input for listing themes.
type ListThemesInput struct{}

// ListThemesOutput is the output for listing themes.
type ListThemesOutput struct {
	Body models.ThemeListResponse
}

// ListThemes returns all themes.
func (h *ThemeHandler) ListThemes(_ context.Context, _ *ListThemesInput) (*ListThemesOutput, error) {
	return &ListThemesOutput{Body: *h.themeService.ListThemes()}, nil
}

// ResolveThemeInput is the input for resolving a theme.
type ResolveThemeInput struct {
	Body struct {
		Component    string   `json:"component,omitempty" doc:"Registered component whose inheritTheme default applies" example:"Section"`
		Theme        string   `json:"theme,omitempty" doc:"Explicit theme of the placement" example:"accent"`
		InheritTheme *bool    `json:"inheritTheme,omitempty" doc:"Explicit inheritTheme flag; omitted uses the component default"`
		Ambient      []string `json:"ambient,omitempty" doc:"Themes of the enclosing providers, outermost first" example:"[\"dark\"]"`
	}
}

// ResolveThemeOutput is the output for resolving a theme.
type ResolveThemeOutput struct {
	Body models.ThemeResolution
}

// ResolveTheme applies the theme rule.
func (h *ThemeHandler) ResolveTheme(_ context.Context, input *ResolveThemeInput) (*ResolveThemeOutput, error) {
	res, err := h.themeService.Resolve(service.ResolveRequest{
		Component:    input.Body.Component,
		Theme:        input.Body.Theme,
		InheritTheme: input.Body.InheritTheme,
		Ambient:      input.Body.Ambient,
	})
	switch {
	case errors.Is(err, registry.ErrUnknownComponent):
		return nil, huma.Error404NotFound("unknown component", err)
	case errors.Is(err, service.ErrNotThemeable):
		return nil, huma.Error422UnprocessableEntity("component is not themeable", err)
	case err != nil:
		return nil, huma.Error422UnprocessableEntity("invalid ambient theme", err)
	}
	return &ResolveThemeOutput{Body: *res}, nil
}

// serveStylesheet serves the generated theme stylesheet with a strong ETag.
// Design tokens are fixed for the life of the process, so clients may cache
// it for a day and revalidate afterwards.
func (h *ThemeHandler) serveStylesheet(w http.ResponseWriter, r *http.Request) {
	css, etag, err := h.themeService.Stylesheet()
	if err != nil {
		http.Error(w, "failed to build stylesheet", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400, must-revalidate")
	w.Header().Set("ETag", etag)

	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(css)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(css)
	}
}

// etagMatches checks an If-None-Match header, which may list several tags
// or be "*". Weak tags compare equal to their strong form.
func etagMatches(header, etag string) bool {
	for tag := range strings.SplitSeq(header, ",") {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "W/")
		if tag == "*" || tag == etag {
			return true
		}
	}
	return false
}
