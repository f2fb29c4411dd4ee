package resilience

import (
	"sort"
	"sync"
)

// BreakerRegistry owns the per-key circuit breakers for one client. It
// is an explicit dependency rather than package-level state: each
// registry is an isolated breaker namespace, so tests stay hermetic and
// independent clients in one process do not trip each other's circuits.
type BreakerRegistry struct {
	config BreakerConfig

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
	hooks    []func(key string, from, to State)
}

// NewBreakerRegistry creates a registry whose breakers share the given
// configuration. The config's OnStateChange becomes the first
// registered hook; breakers always notify through the registry.
func NewBreakerRegistry(config BreakerConfig) *BreakerRegistry {
	r := &BreakerRegistry{
		config:   config.withDefaults(),
		breakers: make(map[string]*CircuitBreaker),
	}
	if fn := r.config.OnStateChange; fn != nil {
		r.hooks = append(r.hooks, fn)
	}
	r.config.OnStateChange = r.dispatch
	return r
}

// OnStateChange registers an additional transition hook. It fires for
// every breaker in the registry, including breakers created before the
// hook was registered.
func (r *BreakerRegistry) OnStateChange(fn func(key string, from, to State)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, fn)
}

func (r *BreakerRegistry) dispatch(key string, from, to State) {
	r.mu.Lock()
	hooks := make([]func(string, State, State), len(r.hooks))
	copy(hooks, r.hooks)
	r.mu.Unlock()

	for _, fn := range hooks {
		fn(key, from, to)
	}
}

// Get returns the breaker for key, creating it on first use. Breakers
// live for the lifetime of the registry.
func (r *BreakerRegistry) Get(key string) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	cb, ok := r.breakers[key]
	if !ok {
		cb = NewCircuitBreaker(key, r.config)
		r.breakers[key] = cb
	}
	return cb
}

// Keys returns the keys of all known breakers, sorted.
func (r *BreakerRegistry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.breakers))
	for key := range r.breakers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns the current status of every breaker, ordered by key.
func (r *BreakerRegistry) Snapshot() []BreakerStatus {
	r.mu.Lock()
	breakers := make([]*CircuitBreaker, 0, len(r.breakers))
	for _, cb := range r.breakers {
		breakers = append(breakers, cb)
	}
	r.mu.Unlock()

	statuses := make([]BreakerStatus, 0, len(breakers))
	for _, cb := range breakers {
		statuses = append(statuses, cb.Status())
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Key < statuses[j].Key })
	return statuses
}
