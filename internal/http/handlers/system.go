package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/blockfront/internal/site"
	"github.com/jmylchreest/blockfront/internal/version"
)

// SystemHandler reports build, host and site information.
type SystemHandler struct {
	sites *site.Directory
}

// NewSystemHandler creates a new system handler.
func NewSystemHandler(sites *site.Directory) *SystemHandler {
	return &SystemHandler{sites: sites}
}

// Register registers the system routes with the API.
func (h *SystemHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getSystemInfo",
		Method:      "GET",
		Path:        "/api/v1/system/info",
		Summary:     "Get system information",
		Description: "Returns the build version, host details and the configured sites",
		Tags:        []string{"System"},
	}, h.GetInfo)
}

// SystemInfoInput is the input for the system info endpoint.
type SystemInfoInput struct{}

// SystemInfoOutput is the output for the system info endpoint.
type SystemInfoOutput struct {
	Body SystemInfoResponse
}

// SystemInfoResponse describes this process.
type SystemInfoResponse struct {
	Build version.Info     `json:"build"`
	Host  version.HostInfo `json:"host"`
	Sites []SiteSummary    `json:"sites"`
}

// SiteSummary is the public description of one configured site. Credentials
// are never included.
type SiteSummary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	BaseURL       string   `json:"base_url"`
	Domains       []string `json:"domains,omitempty"`
	Locales       []string `json:"locales"`
	DefaultLocale string   `json:"default_locale"`
	BaseTheme     string   `json:"base_theme"`
	HasStore      bool     `json:"has_store"`
}

// GetInfo returns the system information. Host details that cannot be read
// are left empty.
func (h *SystemHandler) GetInfo(ctx context.Context, _ *SystemInfoInput) (*SystemInfoOutput, error) {
	hostInfo, _ := version.Host(ctx)

	sites := make([]SiteSummary, 0, len(h.sites.All()))
	for _, st := range h.sites.All() {
		sites = append(sites, SiteSummary{
			ID:            st.ID,
			Name:          st.Name,
			BaseURL:       st.BaseURL,
			Domains:       st.Domains,
			Locales:       st.Locales,
			DefaultLocale: st.DefaultLocale,
			BaseTheme:     string(st.BaseTheme),
			HasStore:      st.HasStore(),
		})
	}

	return &SystemInfoOutput{Body: SystemInfoResponse{
		Build: version.GetInfo(),
		Host:  hostInfo,
		Sites: sites,
	}}, nil
}
