package breaker

import (
	"sync"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/logger"
)

// Registry lazily creates and owns one breaker per processor name.
// Creation is race-free: concurrent Get calls for the same unknown name
// observe the same constructed instance.
type Registry struct {
	mu       sync.RWMutex
	config   Config
	logger   *logger.Logger
	breakers map[string]*CircuitBreaker
}

// NewRegistry builds an empty registry that constructs every breaker with
// the same config.
func NewRegistry(config Config, log *logger.Logger) *Registry {
	return &Registry{
		config:   config,
		logger:   log,
		breakers: make(map[string]*CircuitBreaker),
	}
}

// Get returns the existing breaker for name, or lazily constructs one.
func (r *Registry) Get(name string) *CircuitBreaker {
	r.mu.RLock()
	cb, ok := r.breakers[name]
	r.mu.RUnlock()
	if ok {
		return cb
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cb, ok := r.breakers[name]; ok {
		return cb
	}
	cb = New(name, r.config, r.logger)
	r.breakers[name] = cb
	return cb
}

// Lookup returns the breaker for name without constructing one, reporting
// whether it exists. Used by admin endpoints that must 404 on unknown
// processor names rather than silently creating a breaker for them.
func (r *Registry) Lookup(name string) (*CircuitBreaker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cb, ok := r.breakers[name]
	return cb, ok
}

// AllNames returns the current set of registered processor names.
func (r *Registry) AllNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.breakers))
	for name := range r.breakers {
		names = append(names, name)
	}
	return names
}

// ResetAll resets every registered breaker to CLOSED.
func (r *Registry) ResetAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cb := range r.breakers {
		cb.Reset()
	}
}
