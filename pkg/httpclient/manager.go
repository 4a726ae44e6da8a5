package httpclient

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// Service names used by blockfront's outbound clients.
const (
	ServiceBuilder = "builder"
	ServiceShopify = "shopify"
	ServiceImages  = "images"
)

// Default breaker settings.
const (
	DefaultCircuitThreshold   = 5
	DefaultCircuitTimeout     = 30 * time.Second
	DefaultCircuitHalfOpenMax = 1
)

// Profile configures one service's circuit breaker.
type Profile struct {
	FailureThreshold int           `json:"failure_threshold" yaml:"failure_threshold"`
	ResetTimeout     time.Duration `json:"reset_timeout" yaml:"reset_timeout"`
	HalfOpenMax      int           `json:"half_open_max" yaml:"half_open_max"`

	// AcceptableStatusCodes lists statuses that count as success. Empty means 2xx.
	AcceptableStatusCodes StatusCodes `json:"acceptable_status_codes,omitempty" yaml:"acceptable_status_codes,omitempty"`
}

// DefaultProfile returns the global breaker defaults.
func DefaultProfile() Profile {
	return Profile{
		FailureThreshold: DefaultCircuitThreshold,
		ResetTimeout:     DefaultCircuitTimeout,
		HalfOpenMax:      DefaultCircuitHalfOpenMax,
	}
}

// Merge returns p with the non-zero fields of other applied.
func (p Profile) Merge(other Profile) Profile {
	if other.FailureThreshold > 0 {
		p.FailureThreshold = other.FailureThreshold
	}
	if other.ResetTimeout > 0 {
		p.ResetTimeout = other.ResetTimeout
	}
	if other.HalfOpenMax > 0 {
		p.HalfOpenMax = other.HalfOpenMax
	}
	if len(other.AcceptableStatusCodes) > 0 {
		p.AcceptableStatusCodes = slices.Clone(other.AcceptableStatusCodes)
	}
	return p
}

// DefaultProfiles returns the per-service overrides. A page that does not
// exist in the builder, or an image that has gone, is not a service fault.
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		ServiceBuilder: {AcceptableStatusCodes: MustParseStatusCodes("200-299,404")},
		ServiceImages: {
			FailureThreshold:      20,
			AcceptableStatusCodes: MustParseStatusCodes("200-299,403,404"),
		},
	}
}

// Manager owns one shared circuit breaker per service and hands out clients
// bound to them.
type Manager struct {
	mu       sync.RWMutex
	global   Profile
	profiles map[string]Profile
	breakers map[string]*CircuitBreaker
	config   Config
	logger   *slog.Logger
}

// NewManager creates a manager. global is merged over DefaultProfile and each
// service profile is merged over global.
func NewManager(cfg Config, global Profile, profiles map[string]Profile) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	return &Manager{
		global:   DefaultProfile().Merge(global),
		profiles: profiles,
		breakers: make(map[string]*CircuitBreaker),
		config:   cfg,
		logger:   cfg.Logger,
	}
}

// ProfileFor returns the effective profile for a service.
func (m *Manager) ProfileFor(service string) Profile {
	if p, ok := m.profiles[service]; ok {
		return m.global.Merge(p)
	}
	return m.global
}

// Breaker returns the breaker for service, creating it on first use.
func (m *Manager) Breaker(service string) *CircuitBreaker {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.breakers[service]; ok {
		return b
	}
	p := m.ProfileFor(service)
	b := NewCircuitBreaker(p)
	m.breakers[service] = b
	m.logger.Debug("created circuit breaker",
		slog.String("service", service),
		slog.Int("failure_threshold", p.FailureThreshold),
		slog.Duration("reset_timeout", p.ResetTimeout),
	)
	return b
}

// Client returns a client for service. Clients for the same service share a breaker.
func (m *Manager) Client(service string) *Client {
	cfg := m.config
	cfg.Logger = m.logger.With(slog.String("service", service))
	return New(cfg, m.Breaker(service))
}

// CircuitBreakerStatus is the health view of one breaker.
type CircuitBreakerStatus struct {
	Name string `json:"name"`
	CircuitBreakerStats
}

// Statuses returns a snapshot of every breaker, ordered by service name.
func (m *Manager) Statuses() []CircuitBreakerStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]CircuitBreakerStatus, 0, len(m.breakers))
	for name, b := range m.breakers {
		out = append(out, CircuitBreakerStatus{Name: name, CircuitBreakerStats: b.Stats()})
	}
	slices.SortFunc(out, func(a, b CircuitBreakerStatus) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Healthy reports whether no breaker is open.
func (m *Manager) Healthy() bool {
	for _, s := range m.Statuses() {
		if s.State == CircuitOpen {
			return false
		}
	}
	return true
}
