package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jmylchreest/blockfront/internal/assets"
	"github.com/jmylchreest/blockfront/internal/models"
	"github.com/jmylchreest/blockfront/internal/registry"
	"github.com/jmylchreest/blockfront/internal/theme"
)

// ErrNotThemeable is returned when resolving a theme for a component that
// has no theme inputs.
var ErrNotThemeable = errors.New("component is not themeable")

// ResolveRequest describes a component placement to resolve.
type ResolveRequest struct {
	// Component optionally names a registered component whose inheritTheme
	// default applies when InheritTheme is nil.
	Component    string
	Theme        string
	InheritTheme *bool
	// Ambient lists the enclosing providers' themes, outermost first. An
	// empty list means no provider encloses the component.
	Ambient []string
}

// ThemeService serves the theme stylesheet and answers theme questions for
// the editor.
type ThemeService struct {
	registry *registry.Registry
	logger   *slog.Logger

	once sync.Once
	css  []byte
	etag string
	err  error
}

// NewThemeService creates a theme service backed by the registry's design
// tokens.
func NewThemeService(reg *registry.Registry) *ThemeService {
	return &ThemeService{
		registry: reg,
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger for the service.
func (s *ThemeService) WithLogger(logger *slog.Logger) *ThemeService {
	s.logger = logger
	return s
}

// Stylesheet returns the theme palettes followed by the component styles,
// with a strong ETag. The result is built once; design tokens are fixed at
// startup.
func (s *ThemeService) Stylesheet() ([]byte, string, error) {
	s.once.Do(func() {
		base, err := assets.BaseCSS()
		if err != nil {
			s.err = fmt.Errorf("reading base stylesheet: %w", err)
			return
		}
		tokens, _ := s.registry.DesignTokens()
		palettes := theme.Stylesheet(tokens.Palettes())
		if len(palettes) == 0 {
			s.logger.Warn("no theme palettes in the design tokens, themes.css has none")
		}

		s.css = make([]byte, 0, len(palettes)+len(base)+1)
		s.css = append(s.css, palettes...)
		s.css = append(s.css, '\n')
		s.css = append(s.css, base...)
		sum := sha256.Sum256(s.css)
		s.etag = `"` + hex.EncodeToString(sum[:8]) + `"`
	})
	return s.css, s.etag, s.err
}

// ListThemes returns the fixed themes in canonical order.
func (s *ThemeService) ListThemes() *models.ThemeListResponse {
	tokens, _ := s.registry.DesignTokens()
	palettes := tokens.Palettes()
	title := cases.Title(language.English)

	themes := make([]models.Theme, 0, len(theme.All()))
	for _, t := range theme.All() {
		themes = append(themes, models.Theme{
			ID:      string(t),
			Name:    title.String(strings.ReplaceAll(string(t), "-", " ")),
			Dark:    t.IsDark(),
			Palette: palettes[t],
		})
	}
	return &models.ThemeListResponse{Themes: themes, Default: string(theme.Default)}
}

// Resolve applies the wrapping rule to a component placement.
func (s *ThemeService) Resolve(req ResolveRequest) (*models.ThemeResolution, error) {
	componentDefault := false
	if req.Component != "" {
		c, ok := s.registry.Lookup(req.Component)
		if !ok {
			return nil, fmt.Errorf("%s: %w", req.Component, registry.ErrUnknownComponent)
		}
		if !c.Themeable {
			return nil, fmt.Errorf("%s: %w", req.Component, ErrNotThemeable)
		}
		componentDefault = c.InheritThemeDefault
	}

	var scope *theme.Scope
	for _, name := range req.Ambient {
		t, err := theme.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("ambient provider: %w", err)
		}
		scope = theme.Provide(scope, t, false)
	}

	// An invalid explicit theme counts as absent.
	explicit, _ := theme.Parse(req.Theme)
	applied := theme.Apply(scope, theme.Props{Theme: explicit, InheritTheme: req.InheritTheme}, componentDefault)
	return &models.ThemeResolution{
		Theme:    string(applied.Resolution.Theme),
		Source:   applied.Resolution.Source.String(),
		Boundary: applied.Boundary,
	}, nil
}
