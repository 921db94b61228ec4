package upstream

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Health represents the health status of an upstream feed.
type Health struct {
	// Name is the feed identifier.
	Name string

	// CircuitState is the current circuit breaker state.
	CircuitState gobreaker.State

	// Counts contains circuit breaker statistics.
	Counts gobreaker.Counts

	// LastSuccessAt is the timestamp of the last successful request.
	LastSuccessAt *time.Time

	// LastFailureAt is the timestamp of the last failed request.
	LastFailureAt *time.Time

	// LastError is the most recent error message, if any.
	LastError string
}

// IsHealthy returns true if the feed is considered healthy.
func (h *Health) IsHealthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// Registry tracks upstream clients and their health, surfaced on the
// health endpoint.
type Registry struct {
	mu    sync.RWMutex
	feeds map[string]*registeredFeed
}

type registeredFeed struct {
	client        *Client
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates a new upstream registry.
func NewRegistry() *Registry {
	return &Registry{feeds: make(map[string]*registeredFeed)}
}

// Register adds an upstream client to the registry.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feeds[name] = &registeredFeed{client: client}
}

// RecordSuccess records a successful request for a feed.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.feeds[name]; ok {
		now := time.Now()
		f.lastSuccessAt = &now
	}
}

// RecordFailure records a failed request for a feed.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.feeds[name]; ok {
		now := time.Now()
		f.lastFailureAt = &now
		if err != nil {
			f.lastError = err.Error()
		}
	}
}

// GetHealth returns the health status of a specific feed, or nil when the
// feed is unknown.
func (r *Registry) GetHealth(name string) *Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.feeds[name]
	if !ok {
		return nil
	}
	return r.healthLocked(name, f)
}

// GetAllHealth returns the health status of all registered feeds.
func (r *Registry) GetAllHealth() []*Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]*Health, 0, len(r.feeds))
	for name, f := range r.feeds {
		health = append(health, r.healthLocked(name, f))
	}
	return health
}

func (r *Registry) healthLocked(name string, f *registeredFeed) *Health {
	return &Health{
		Name:          name,
		CircuitState:  f.client.BreakerState(),
		Counts:        f.client.BreakerCounts(),
		LastSuccessAt: f.lastSuccessAt,
		LastFailureAt: f.lastFailureAt,
		LastError:     f.lastError,
	}
}
