package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/blockfront/internal/service"
	"github.com/jmylchreest/blockfront/internal/site"
)

// PathsHandler lists the statically known paths of a site.
type PathsHandler struct {
	paths *service.PathService
	sites *site.Directory
}

// NewPathsHandler creates a new paths handler.
func NewPathsHandler(paths *service.PathService, sites *site.Directory) *PathsHandler {
	return &PathsHandler{paths: paths, sites: sites}
}

// Register registers the paths route with the API.
func (h *PathsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listPaths",
		Method:      "GET",
		Path:        "/api/v1/paths",
		Summary:     "List static paths",
		Description: "Enumerates page, article, product and collection paths of a site in every locale",
		Tags:        []string{"Cache"},
	}, h.ListPaths)
}

// ListPathsInput is the input for listing paths.
type ListPathsInput struct {
	Site string `query:"site" doc:"Site ID; defaults to the site serving the request host"`
	Kind string `query:"kind" enum:"page,article,product,collection" doc:"Only list paths of this kind"`
}

// ListPathsOutput is the output for listing paths.
type ListPathsOutput struct {
	Body ListPathsResponse
}

// ListPathsResponse is the path listing.
type ListPathsResponse struct {
	Site  string              `json:"site"`
	Count int                 `json:"count"`
	Paths []service.PathEntry `json:"paths"`
}

// ListPaths enumerates the site's paths.
func (h *PathsHandler) ListPaths(ctx context.Context, input *ListPathsInput) (*ListPathsOutput, error) {
	st := site.FromContext(ctx)
	if input.Site != "" {
		var ok bool
		if st, ok = h.sites.Get(input.Site); !ok {
			return nil, huma.Error404NotFound("unknown site " + input.Site)
		}
	}
	if st == nil {
		st = h.sites.Default()
	}

	entries, err := h.paths.StaticPaths(ctx, st)
	if err != nil {
		return nil, huma.Error502BadGateway("failed to enumerate paths", err)
	}
	if input.Kind != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if string(e.Kind) == input.Kind {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	return &ListPathsOutput{Body: ListPathsResponse{Site: st.ID, Count: len(entries), Paths: entries}}, nil
}
