package handlers

import (
	"github.com/jmylchreest/blockfront/internal/scheduler"
	"github.com/jmylchreest/blockfront/pkg/httpclient"
)

// Health types

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status        string            `json:"status" doc:"healthy, degraded or unhealthy"`
	Timestamp     string            `json:"timestamp"`
	Version       string            `json:"version"`
	Uptime        string            `json:"uptime"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	CPUInfo       CPUInfo           `json:"cpu_info"`
	Memory        MemoryInfo        `json:"memory"`
	Components    HealthComponents  `json:"components"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// CPUInfo holds load averages.
type CPUInfo struct {
	Cores              int     `json:"cores"`
	Load1Min           float64 `json:"load_1min"`
	Load5Min           float64 `json:"load_5min"`
	Load15Min          float64 `json:"load_15min"`
	LoadPercentage1Min float64 `json:"load_percentage_1min"`
}

// MemoryInfo holds system and process memory figures in MiB.
type MemoryInfo struct {
	TotalMemoryMB          float64 `json:"total_memory_mb"`
	UsedMemoryMB           float64 `json:"used_memory_mb"`
	AvailableMemoryMB      float64 `json:"available_memory_mb"`
	ProcessMB              float64 `json:"process_mb"`
	ProcessPercentOfSystem float64 `json:"process_percent_of_system"`
	HeapAllocMB            float64 `json:"heap_alloc_mb"`
	Goroutines             int     `json:"goroutines"`
}

// HealthComponents reports the state of each dependency.
type HealthComponents struct {
	Database        DatabaseHealth                    `json:"database"`
	CircuitBreakers []httpclient.CircuitBreakerStatus `json:"circuit_breakers,omitempty"`
	Scheduler       *scheduler.Status                 `json:"scheduler,omitempty"`
}

// DatabaseHealth is the cache database check.
type DatabaseHealth struct {
	Status         string  `json:"status" doc:"ok, slow, error or unknown"`
	ResponseTimeMS float64 `json:"response_time_ms"`
	Error          string  `json:"error,omitempty"`
}

// ProbeResponse is the body of the liveness and readiness probes.
type ProbeResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}
