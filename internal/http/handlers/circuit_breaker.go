package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/blockfront/pkg/httpclient"
)

// CircuitBreakerHandler exposes the outbound circuit breakers of the page
// builder, storefront and image clients.
type CircuitBreakerHandler struct {
	manager *httpclient.Manager
}

// NewCircuitBreakerHandler creates a new circuit breaker handler.
func NewCircuitBreakerHandler(manager *httpclient.Manager) *CircuitBreakerHandler {
	return &CircuitBreakerHandler{manager: manager}
}

// Register registers the circuit breaker routes with the API.
func (h *CircuitBreakerHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listCircuitBreakers",
		Method:      "GET",
		Path:        "/api/v1/circuit-breakers",
		Summary:     "List circuit breakers",
		Tags:        []string{"Circuit Breakers"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "resetCircuitBreaker",
		Method:      "POST",
		Path:        "/api/v1/circuit-breakers/{name}/reset",
		Summary:     "Reset a circuit breaker",
		Description: "Closes a breaker so the next request reaches the upstream immediately",
		Tags:        []string{"Circuit Breakers"},
	}, h.Reset)
}

// ListCircuitBreakersInput is the input for listing breakers.
type ListCircuitBreakersInput struct{}

// ListCircuitBreakersOutput is the output for listing breakers.
type ListCircuitBreakersOutput struct {
	Body struct {
		Healthy  bool                              `json:"healthy"`
		Breakers []httpclient.CircuitBreakerStatus `json:"breakers"`
	}
}

// List returns every breaker created so far.
func (h *CircuitBreakerHandler) List(_ context.Context, _ *ListCircuitBreakersInput) (*ListCircuitBreakersOutput, error) {
	out := &ListCircuitBreakersOutput{}
	out.Body.Healthy = h.manager.Healthy()
	out.Body.Breakers = h.manager.Statuses()
	return out, nil
}

// ResetCircuitBreakerInput is the input for resetting a breaker.
type ResetCircuitBreakerInput struct {
	Name string `path:"name" doc:"Service name" example:"builder"`
}

// ResetCircuitBreakerOutput is the output for resetting a breaker.
type ResetCircuitBreakerOutput struct {
	Body httpclient.CircuitBreakerStatus
}

// Reset closes one breaker. Only breakers that already exist can be reset.
func (h *CircuitBreakerHandler) Reset(_ context.Context, input *ResetCircuitBreakerInput) (*ResetCircuitBreakerOutput, error) {
	for _, s := range h.manager.Statuses() {
		if s.Name != input.Name {
			continue
		}
		b := h.manager.Breaker(input.Name)
		b.Reset()
		return &ResetCircuitBreakerOutput{Body: httpclient.CircuitBreakerStatus{Name: input.Name, CircuitBreakerStats: b.Stats()}}, nil
	}
	return nil, huma.Error404NotFound("unknown circuit breaker " + input.Name)
}
