package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/blockfront/internal/registry"
)

// EditorHandler serves the component registry to the visual editor.
type EditorHandler struct {
	registry *registry.Registry
}

// NewEditorHandler creates a new editor handler.
func NewEditorHandler(reg *registry.Registry) *EditorHandler {
	return &EditorHandler{registry: reg}
}

// Register registers the editor routes with the API.
func (h *EditorHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getEditorManifest",
		Method:      "GET",
		Path:        "/api/v1/editor/manifest",
		Summary:     "Get the component manifest",
		Description: "Returns every registered component with its inputs, the insert menus and the design token settings",
		Tags:        []string{"Editor"},
	}, h.GetManifest)

	huma.Register(api, huma.Operation{
		OperationID: "getDesignTokens",
		Method:      "GET",
		Path:        "/api/v1/editor/design-tokens",
		Summary:     "Get the design tokens",
		Tags:        []string{"Editor"},
	}, h.GetDesignTokens)

	huma.Register(api, huma.Operation{
		OperationID: "getEffectiveInputs",
		Method:      "POST",
		Path:        "/api/v1/editor/components/{name}/inputs",
		Summary:     "Get the visible inputs of a component",
		Description: "Evaluates each input's visibility condition against the supplied values merged over the component defaults",
		Tags:        []string{"Editor"},
	}, h.GetEffectiveInputs)
}

// ManifestInput is the input for the manifest endpoint.
type ManifestInput struct{}

// ManifestOutput is the output for the manifest endpoint.
type ManifestOutput struct {
	Body registry.Manifest
}

// GetManifest returns the registry manifest.
func (h *EditorHandler) GetManifest(_ context.Context, _ *ManifestInput) (*ManifestOutput, error) {
	return &ManifestOutput{Body: h.registry.Manifest()}, nil
}

// DesignTokensInput is the input for the design token endpoint.
type DesignTokensInput struct{}

// DesignTokensOutput is the output for the design token endpoint.
type DesignTokensOutput struct {
	Body DesignTokensResponse
}

// DesignTokensResponse is the design token set with its strictness flag.
type DesignTokensResponse struct {
	Optional bool                    `json:"designTokensOptional" doc:"Whether editors may enter values outside the token set"`
	Tokens   registry.DesignTokenSet `json:"designTokens"`
}

// GetDesignTokens returns the design tokens.
func (h *EditorHandler) GetDesignTokens(_ context.Context, _ *DesignTokensInput) (*DesignTokensOutput, error) {
	tokens, optional := h.registry.DesignTokens()
	return &DesignTokensOutput{Body: DesignTokensResponse{Optional: optional, Tokens: tokens}}, nil
}

// EffectiveInputsInput is the input for the effective inputs endpoint.
type EffectiveInputsInput struct {
	Name string `path:"name" doc:"Registered component name" example:"Section"`
	Body struct {
		Values map[string]any `json:"values" doc:"Current option values of the block"`
	}
}

// EffectiveInputsOutput is the output for the effective inputs endpoint.
type EffectiveInputsOutput struct {
	Body EffectiveInputsResponse
}

// EffectiveInputsResponse lists the inputs visible for the supplied values.
type EffectiveInputsResponse struct {
	Component string           `json:"component"`
	Inputs    []registry.Input `json:"inputs"`
}

// GetEffectiveInputs returns the inputs the editor should show.
func (h *EditorHandler) GetEffectiveInputs(_ context.Context, input *EffectiveInputsInput) (*EffectiveInputsOutput, error) {
	inputs, err := h.registry.EffectiveInputs(input.Name, registry.Values(input.Body.Values))
	if err != nil {
		if errors.Is(err, registry.ErrUnknownComponent) {
			return nil, huma.Error404NotFound("unknown component", err)
		}
		return nil, huma.Error500InternalServerError("failed to evaluate inputs", err)
	}
	return &EffectiveInputsOutput{Body: EffectiveInputsResponse{Component: input.Name, Inputs: inputs}}, nil
}
