package httpclient

import (
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name in JSON health output.
func (s CircuitState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CircuitBreaker opens after FailureThreshold consecutive failures, stays
// open for ResetTimeout and then lets HalfOpenMax probe requests through.
// One probe success closes it again; one probe failure reopens it.
type CircuitBreaker struct {
	mu            sync.Mutex
	profile       Profile
	state         CircuitState
	failures      int
	halfOpenCount int
	lastFailure   time.Time
	lastChange    time.Time

	totalRequests int64
	totalFailures int64

	now func() time.Time
}

// NewCircuitBreaker creates a closed breaker. Zero profile fields take the defaults.
func NewCircuitBreaker(p Profile) *CircuitBreaker {
	return &CircuitBreaker{profile: DefaultProfile().Merge(p), now: time.Now}
}

// Allow reports whether a request may proceed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitOpen:
		if cb.now().Sub(cb.lastFailure) < cb.profile.ResetTimeout {
			return false
		}
		cb.setState(CircuitHalfOpen)
		cb.halfOpenCount = 1
		return true
	case CircuitHalfOpen:
		if cb.halfOpenCount < cb.profile.HalfOpenMax {
			cb.halfOpenCount++
			return true
		}
		return false
	default:
		return true
	}
}

// Acceptable reports whether a response status counts as a success.
func (cb *CircuitBreaker) Acceptable(code int) bool {
	if len(cb.profile.AcceptableStatusCodes) == 0 {
		return code >= 200 && code < 300
	}
	return cb.profile.AcceptableStatusCodes.Contains(code)
}

// RecordSuccess records a successful request.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.totalRequests++
	cb.failures = 0
	if cb.state == CircuitHalfOpen {
		cb.setState(CircuitClosed)
	}
}

// RecordFailure records a failed request.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.totalRequests++
	cb.totalFailures++
	cb.failures++
	cb.lastFailure = cb.now()

	switch cb.state {
	case CircuitClosed:
		if cb.failures >= cb.profile.FailureThreshold {
			cb.setState(CircuitOpen)
		}
	case CircuitHalfOpen:
		cb.setState(CircuitOpen)
	}
}

// setState must be called with mu held.
func (cb *CircuitBreaker) setState(s CircuitState) {
	if cb.state != s {
		cb.state = s
		cb.lastChange = cb.now()
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset closes the breaker and clears the failure count.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.setState(CircuitClosed)
	cb.failures = 0
	cb.halfOpenCount = 0
}

// CircuitBreakerStats is a point-in-time snapshot of a breaker.
type CircuitBreakerStats struct {
	State               CircuitState `json:"state"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
	TotalRequests       int64        `json:"total_requests"`
	TotalFailures       int64        `json:"total_failures"`
	LastFailure         *time.Time   `json:"last_failure,omitempty"`
	StateChangedAt      *time.Time   `json:"state_changed_at,omitempty"`
	NextHalfOpenAt      *time.Time   `json:"next_half_open_at,omitempty"`
}

// Stats returns a snapshot of the breaker.
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	s := CircuitBreakerStats{
		State:               cb.state,
		ConsecutiveFailures: cb.failures,
		TotalRequests:       cb.totalRequests,
		TotalFailures:       cb.totalFailures,
	}
	if !cb.lastFailure.IsZero() {
		t := cb.lastFailure
		s.LastFailure = &t
	}
	if !cb.lastChange.IsZero() {
		t := cb.lastChange
		s.StateChangedAt = &t
	}
	if cb.state == CircuitOpen {
		t := cb.lastFailure.Add(cb.profile.ResetTimeout)
		s.NextHalfOpenAt = &t
	}
	return s
}
