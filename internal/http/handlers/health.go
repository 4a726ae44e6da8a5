// Package handlers provides HTTP handlers for blockfront: the huma API
// operations and the chi routes that serve rendered pages.
package handlers

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/jmylchreest/blockfront/internal/scheduler"
	"github.com/jmylchreest/blockfront/pkg/httpclient"
)

// Pinger checks a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SchedulerStatus reports the cache warmer's state.
type SchedulerStatus interface {
	Status() scheduler.Status
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	version   string
	startTime time.Time
	clients   *httpclient.Manager
	db        Pinger
	scheduler SchedulerStatus
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
	}
}

// WithHTTPManager sets the outbound client manager whose breakers are reported.
func (h *HealthHandler) WithHTTPManager(m *httpclient.Manager) *HealthHandler {
	h.clients = m
	return h
}

// WithDB sets the database connection for health checks.
func (h *HealthHandler) WithDB(db Pinger) *HealthHandler {
	h.db = db
	return h
}

// WithScheduler sets the scheduler reported in the health response.
func (h *HealthHandler) WithScheduler(s SchedulerStatus) *HealthHandler {
	h.scheduler = s
	return h
}

// Register registers the health routes with the API.
func (h *HealthHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getHealth",
		Method:      "GET",
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service including system metrics, outbound circuit breakers and the cache warmer",
		Tags:        []string{"System"},
	}, h.GetHealth)

	huma.Register(api, huma.Operation{
		OperationID: "getLivez",
		Method:      "GET",
		Path:        "/livez",
		Summary:     "Liveness probe",
		Tags:        []string{"System"},
	}, h.GetLivez)

	huma.Register(api, huma.Operation{
		OperationID: "getReadyz",
		Method:      "GET",
		Path:        "/readyz",
		Summary:     "Readiness probe",
		Description: "Reports ready once the content cache database answers",
		Tags:        []string{"System"},
	}, h.GetReadyz)
}

// HealthInput is the input for the health check endpoint.
type HealthInput struct{}

// HealthOutput is the output for the health check endpoint.
type HealthOutput struct {
	Body HealthResponse
}

// GetHealth returns the health status of the service. An open circuit
// breaker degrades the status; the pages are still served from cache.
func (h *HealthHandler) GetHealth(ctx context.Context, _ *HealthInput) (*HealthOutput, error) {
	now := time.Now()
	uptime := now.Sub(h.startTime)

	resp := HealthResponse{
		Status:        "healthy",
		Timestamp:     now.UTC().Format(time.RFC3339),
		Version:       h.version,
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: uptime.Seconds(),
		CPUInfo:       h.getCPUInfo(),
		Memory:        h.getMemoryInfo(),
		Checks:        map[string]string{},
	}

	resp.Components.Database = h.getDatabaseHealth(ctx)
	resp.Checks["database"] = resp.Components.Database.Status
	if resp.Components.Database.Status == "error" {
		resp.Status = "unhealthy"
	}

	if h.clients != nil {
		resp.Components.CircuitBreakers = h.clients.Statuses()
		if !h.clients.Healthy() {
			resp.Checks["upstreams"] = "degraded"
			if resp.Status == "healthy" {
				resp.Status = "degraded"
			}
		} else {
			resp.Checks["upstreams"] = "ok"
		}
	}

	if h.scheduler != nil {
		st := h.scheduler.Status()
		resp.Components.Scheduler = &st
		resp.Checks["scheduler"] = "stopped"
		if st.Running {
			resp.Checks["scheduler"] = "ok"
		}
	}

	return &HealthOutput{Body: resp}, nil
}

// LivezInput is the input for the liveness probe.
type LivezInput struct{}

// LivezOutput is the output for the liveness probe.
type LivezOutput struct {
	Body ProbeResponse
}

// GetLivez reports that the process is serving requests.
func (h *HealthHandler) GetLivez(_ context.Context, _ *LivezInput) (*LivezOutput, error) {
	return &LivezOutput{Body: ProbeResponse{Status: "ok"}}, nil
}

// ReadyzInput is the input for the readiness probe.
type ReadyzInput struct{}

// ReadyzOutput is the output for the readiness probe.
type ReadyzOutput struct {
	Body ProbeResponse
}

// GetReadyz reports whether the cache database answers.
func (h *HealthHandler) GetReadyz(ctx context.Context, _ *ReadyzInput) (*ReadyzOutput, error) {
	resp := ProbeResponse{Status: "ready", Components: map[string]string{}}

	switch {
	case h.db == nil:
		resp.Status = "not_ready"
		resp.Components["database"] = "not_configured"
	case h.db.Ping(ctx) != nil:
		resp.Status = "not_ready"
		resp.Components["database"] = "error"
	default:
		resp.Components["database"] = "ok"
	}

	return &ReadyzOutput{Body: resp}, nil
}

// getCPUInfo returns CPU load information.
func (h *HealthHandler) getCPUInfo() CPUInfo {
	cores := runtime.NumCPU()
	info := CPUInfo{Cores: cores}

	loadAvg, err := load.Avg()
	if err == nil && loadAvg != nil {
		info.Load1Min = loadAvg.Load1
		info.Load5Min = loadAvg.Load5
		info.Load15Min = loadAvg.Load15
		if cores > 0 {
			info.LoadPercentage1Min = (loadAvg.Load1 / float64(cores)) * 100
		}
	}
	return info
}

// getMemoryInfo returns system and process memory usage.
func (h *HealthHandler) getMemoryInfo() MemoryInfo {
	info := MemoryInfo{}

	vmStat, err := mem.VirtualMemory()
	if err == nil && vmStat != nil {
		info.TotalMemoryMB = float64(vmStat.Total) / 1024 / 1024
		info.UsedMemoryMB = float64(vmStat.Used) / 1024 / 1024
		info.AvailableMemoryMB = float64(vmStat.Available) / 1024 / 1024
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err == nil {
		if m, err := proc.MemoryInfo(); err == nil && m != nil {
			info.ProcessMB = float64(m.RSS) / 1024 / 1024
			if info.TotalMemoryMB > 0 {
				info.ProcessPercentOfSystem = (info.ProcessMB / info.TotalMemoryMB) * 100
			}
		}
	}

	var rt runtime.MemStats
	runtime.ReadMemStats(&rt)
	info.HeapAllocMB = float64(rt.HeapAlloc) / 1024 / 1024
	info.Goroutines = runtime.NumGoroutine()

	return info
}

// getDatabaseHealth pings the cache database.
func (h *HealthHandler) getDatabaseHealth(ctx context.Context) DatabaseHealth {
	if h.db == nil {
		return DatabaseHealth{Status: "unknown"}
	}

	start := time.Now()
	err := h.db.Ping(ctx)
	health := DatabaseHealth{
		Status:         "ok",
		ResponseTimeMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	switch {
	case err != nil:
		health.Status = "error"
		health.Error = err.Error()
	case health.ResponseTimeMS > 100:
		health.Status = "slow"
	}
	return health
}
