package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SharesBreakerPerService(t *testing.T) {
	m := NewManager(fastConfig(), Profile{}, nil)

	a := m.Client(ServiceShopify)
	b := m.Client(ServiceShopify)
	c := m.Client(ServiceBuilder)

	assert.Same(t, a.Breaker(), b.Breaker())
	assert.NotSame(t, a.Breaker(), c.Breaker())
}

func TestManager_ProfileFor(t *testing.T) {
	m := NewManager(fastConfig(), Profile{FailureThreshold: 7}, nil)

	shop := m.ProfileFor(ServiceShopify)
	assert.Equal(t, 7, shop.FailureThreshold)
	assert.Empty(t, shop.AcceptableStatusCodes)

	builder := m.ProfileFor(ServiceBuilder)
	assert.Equal(t, 7, builder.FailureThreshold)
	assert.True(t, builder.AcceptableStatusCodes.Contains(404))

	images := m.ProfileFor(ServiceImages)
	assert.Equal(t, 20, images.FailureThreshold)
}

func TestManager_BuilderNotFoundIsNotAFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	m := NewManager(fastConfig(), Profile{FailureThreshold: 1}, nil)
	client := m.Client(ServiceBuilder)
	for range 3 {
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.Equal(t, CircuitClosed, client.State())
	assert.True(t, m.Healthy())
}

func TestManager_Statuses(t *testing.T) {
	m := NewManager(fastConfig(), Profile{FailureThreshold: 1}, nil)
	m.Breaker(ServiceShopify).RecordFailure()
	m.Breaker(ServiceBuilder)

	statuses := m.Statuses()
	require.Len(t, statuses, 2)
	assert.Equal(t, ServiceBuilder, statuses[0].Name)
	assert.Equal(t, ServiceShopify, statuses[1].Name)
	assert.Equal(t, CircuitOpen, statuses[1].State)
	assert.False(t, m.Healthy())
}
