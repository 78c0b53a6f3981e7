package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/julianstephens/mantenix/internal/logger"
)

// Endpoint families share a circuit breaker.
const (
	familyAgenda    = "agenda"
	familyTasks     = "tasks"
	familyGroups    = "groups"
	familyContacts  = "contacts"
	familyReminders = "reminders"
)

// BreakerSettings tunes the per-family circuit breakers.
type BreakerSettings struct {
	// Failures is the number of consecutive failures that opens the breaker.
	Failures uint32
	// Cooldown is how long an open breaker rejects calls before probing.
	Cooldown time.Duration
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{Failures: 5, Cooldown: 30 * time.Second}
}

// BreakerRegistry holds one circuit breaker per endpoint family.
type BreakerRegistry struct {
	mu       sync.Mutex
	settings BreakerSettings
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewBreakerRegistry(settings BreakerSettings) *BreakerRegistry {
	if settings.Failures == 0 {
		settings.Failures = DefaultBreakerSettings().Failures
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = DefaultBreakerSettings().Cooldown
	}
	return &BreakerRegistry{
		settings: settings,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Get returns the breaker for family, creating it on first use.
func (r *BreakerRegistry) Get(family string) *gobreaker.CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[family]; ok {
		return cb
	}

	failures := r.settings.Failures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        family,
		MaxRequests: 1,
		Timeout:     r.settings.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "family", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: breakerSuccess,
	})
	r.breakers[family] = cb
	return cb
}

// State reports the breaker state for family without creating it.
func (r *BreakerRegistry) State(family string) (gobreaker.State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cb, ok := r.breakers[family]
	if !ok {
		return gobreaker.StateClosed, false
	}
	return cb.State(), true
}

// breakerSuccess counts only backend-side failures against the breaker.
// Cancellation and 4xx responses mean the backend is up.
func breakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode < http.StatusInternalServerError
	}
	return false
}
