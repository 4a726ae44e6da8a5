package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blockfront/internal/scheduler"
	"github.com/jmylchreest/blockfront/pkg/httpclient"
)

type fakeScheduler struct{ status scheduler.Status }

func (f fakeScheduler) Status() scheduler.Status { return f.status }

func TestHealthHandler_GetLivez(t *testing.T) {
	handler := NewHealthHandler("1.0.0")

	output, err := handler.GetLivez(context.Background(), &LivezInput{})
	require.NoError(t, err)
	assert.Equal(t, "ok", output.Body.Status)
}

func TestHealthHandler_GetReadyz(t *testing.T) {
	t.Run("not ready without a database", func(t *testing.T) {
		output, err := NewHealthHandler("1.0.0").GetReadyz(context.Background(), &ReadyzInput{})
		require.NoError(t, err)
		assert.Equal(t, "not_ready", output.Body.Status)
		assert.Equal(t, "not_configured", output.Body.Components["database"])
	})

	t.Run("not ready when the ping fails", func(t *testing.T) {
		handler := NewHealthHandler("1.0.0").WithDB(fakePinger{err: errors.New("locked")})
		output, err := handler.GetReadyz(context.Background(), &ReadyzInput{})
		require.NoError(t, err)
		assert.Equal(t, "not_ready", output.Body.Status)
		assert.Equal(t, "error", output.Body.Components["database"])
	})

	t.Run("ready", func(t *testing.T) {
		handler := NewHealthHandler("1.0.0").WithDB(fakePinger{})
		output, err := handler.GetReadyz(context.Background(), &ReadyzInput{})
		require.NoError(t, err)
		assert.Equal(t, "ready", output.Body.Status)
	})
}

func TestHealthHandler_GetHealth(t *testing.T) {
	mgr := httpclient.NewManager(httpclient.DefaultConfig(), httpclient.DefaultProfile(), nil)
	mgr.Breaker(httpclient.ServiceBuilder)

	handler := NewHealthHandler("1.0.0").
		WithDB(fakePinger{}).
		WithHTTPManager(mgr).
		WithScheduler(fakeScheduler{status: scheduler.Status{Running: true, Cron: "@hourly"}})

	output, err := handler.GetHealth(context.Background(), &HealthInput{})
	require.NoError(t, err)

	body := output.Body
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "1.0.0", body.Version)
	assert.NotEmpty(t, body.Uptime)
	assert.NotZero(t, body.CPUInfo.Cores)
	assert.NotZero(t, body.Memory.Goroutines)
	assert.Equal(t, "ok", body.Components.Database.Status)
	require.Len(t, body.Components.CircuitBreakers, 1)
	assert.Equal(t, "builder", body.Components.CircuitBreakers[0].Name)
	require.NotNil(t, body.Components.Scheduler)
	assert.Equal(t, "@hourly", body.Components.Scheduler.Cron)
	assert.Equal(t, map[string]string{"database": "ok", "upstreams": "ok", "scheduler": "ok"}, body.Checks)
}

func TestHealthHandler_Degraded(t *testing.T) {
	mgr := httpclient.NewManager(httpclient.DefaultConfig(), httpclient.Profile{FailureThreshold: 1, ResetTimeout: time.Hour, HalfOpenMax: 1}, map[string]httpclient.Profile{})
	mgr.Breaker(httpclient.ServiceShopify).RecordFailure()

	output, err := NewHealthHandler("1.0.0").WithDB(fakePinger{}).WithHTTPManager(mgr).
		GetHealth(context.Background(), &HealthInput{})
	require.NoError(t, err)
	assert.Equal(t, "degraded", output.Body.Status)
	assert.Equal(t, "degraded", output.Body.Checks["upstreams"])

	output, err = NewHealthHandler("1.0.0").WithDB(fakePinger{err: errors.New("gone")}).
		GetHealth(context.Background(), &HealthInput{})
	require.NoError(t, err)
	assert.Equal(t, "unhealthy", output.Body.Status)
	assert.Equal(t, "gone", output.Body.Components.Database.Error)
}
