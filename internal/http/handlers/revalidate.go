package handlers

import (
	"context"
	"crypto/subtle"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/blockfront/internal/site"
)

// ContentInvalidator drops cached page builder content.
type ContentInvalidator interface {
	Invalidate(ctx context.Context, siteID, model, key string) (int64, error)
}

// CommerceInvalidator drops cached storefront data.
type CommerceInvalidator interface {
	Invalidate(siteID, handle string) int
}

// RevalidateHandler is the webhook the page builder and the store call when
// content is published.
type RevalidateHandler struct {
	secret   string
	sites    *site.Directory
	content  ContentInvalidator
	commerce CommerceInvalidator
}

// NewRevalidateHandler creates a new revalidation handler. An empty secret
// disables the webhook.
func NewRevalidateHandler(secret string, sites *site.Directory, content ContentInvalidator, commerce CommerceInvalidator) *RevalidateHandler {
	return &RevalidateHandler{
		secret:   secret,
		sites:    sites,
		content:  content,
		commerce: commerce,
	}
}

// Register registers the revalidation route with the API.
func (h *RevalidateHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "revalidate",
		Method:      "POST",
		Path:        "/api/v1/revalidate",
		Summary:     "Invalidate cached content",
		Description: "Drops cached page builder entries and storefront data so the next request refetches them. Requires the X-Revalidate-Secret header.",
		Tags:        []string{"Cache"},
	}, h.Revalidate)
}

// RevalidateInput is the input for the revalidation webhook.
type RevalidateInput struct {
	Secret string `header:"X-Revalidate-Secret" doc:"Shared webhook secret"`
	Body   RevalidateRequest
}

// RevalidateRequest names what to drop. With no model and no commerce
// target the request is a no-op.
type RevalidateRequest struct {
	Site string `json:"site,omitempty" doc:"Site ID; defaults to the site serving the request host"`
	// Model and Path select page builder entries.
	Model string `json:"model,omitempty" doc:"Page builder model, e.g. page or header" example:"page"`
	Path  string `json:"path,omitempty" doc:"URL path or cache key within the model; empty drops the whole model" example:"/about"`
	// Handle and Commerce select storefront entries.
	Handle   string `json:"handle,omitempty" doc:"Product or collection handle to drop"`
	Commerce bool   `json:"commerce,omitempty" doc:"Drop every cached storefront entry of the site"`
}

// RevalidateOutput is the output for the revalidation webhook.
type RevalidateOutput struct {
	Body RevalidateResponse
}

// RevalidateResponse reports how many entries were dropped.
type RevalidateResponse struct {
	Site            string `json:"site"`
	ContentEntries  int64  `json:"content_entries"`
	CommerceEntries int    `json:"commerce_entries"`
}

// Revalidate drops the selected cache entries.
func (h *RevalidateHandler) Revalidate(ctx context.Context, input *RevalidateInput) (*RevalidateOutput, error) {
	if h.secret == "" {
		return nil, huma.Error503ServiceUnavailable("revalidation is not configured")
	}
	if subtle.ConstantTimeCompare([]byte(input.Secret), []byte(h.secret)) != 1 {
		return nil, huma.Error401Unauthorized("invalid revalidation secret")
	}

	st := site.FromContext(ctx)
	if input.Body.Site != "" {
		var ok bool
		if st, ok = h.sites.Get(input.Body.Site); !ok {
			return nil, huma.Error404NotFound("unknown site " + input.Body.Site)
		}
	}
	if st == nil {
		st = h.sites.Default()
	}

	resp := RevalidateResponse{Site: st.ID}
	if input.Body.Model != "" {
		n, err := h.content.Invalidate(ctx, st.ID, input.Body.Model, input.Body.Path)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to invalidate content", err)
		}
		resp.ContentEntries = n
	}
	if input.Body.Handle != "" || input.Body.Commerce {
		resp.CommerceEntries = h.commerce.Invalidate(st.ID, input.Body.Handle)
	}
	return &RevalidateOutput{Body: resp}, nil
}
