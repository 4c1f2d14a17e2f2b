package apicaller

import (
	"sync"
	"time"
)

// BackoffState holds the adaptive wait and timeout values for one caller
// kind. Every caller of the same kind shares one state, so a rate-limit
// storm observed by one instance slows down all of them.
//
// All methods are safe for concurrent use.
type BackoffState struct {
	mu sync.Mutex

	minWait  time.Duration
	wait     time.Duration
	timeout  time.Duration
	increase float64
	decrease time.Duration
}

// NewBackoffState creates a backoff state with the given initial values.
func NewBackoffState(minWait, initialWait, timeout time.Duration, increase float64, decrease time.Duration) *BackoffState {
	if initialWait < minWait {
		initialWait = minWait
	}
	return &BackoffState{
		minWait:  minWait,
		wait:     initialWait,
		timeout:  timeout,
		increase: increase,
		decrease: decrease,
	}
}

// Wait returns the current pre-attempt wait time.
func (s *BackoffState) Wait() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wait
}

// Timeout returns the current per-attempt timeout.
func (s *BackoffState) Timeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeout
}

// OnSuccess decays the wait time toward the configured floor. The timeout
// is left untouched: once inflated by transient slowness it only resets via
// explicit reconfiguration.
func (s *BackoffState) OnSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wait -= s.decrease
	if s.wait < s.minWait {
		s.wait = s.minWait
	}
}

// OnRateLimited grows the wait time multiplicatively. There is no ceiling;
// callers retry until the remote API lets them through or the context is
// cancelled.
func (s *BackoffState) OnRateLimited() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wait = time.Duration(float64(s.wait) * s.increase)
}

// OnTimeout grows the per-attempt timeout multiplicatively. Wait time is
// unaffected: a slow response is not a signal that we are calling too often.
func (s *BackoffState) OnTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = time.Duration(float64(s.timeout) * s.increase)
}

// Registry maps caller kinds to their shared BackoffState. States are
// created lazily on first use and live for the process lifetime.
type Registry struct {
	mu     sync.Mutex
	states map[string]*BackoffState
}

// NewRegistry creates an empty backoff registry.
func NewRegistry() *Registry {
	return &Registry{states: make(map[string]*BackoffState)}
}

// State returns the shared state for kind, creating it from cfg on first
// use. Later calls with the same kind ignore cfg and return the existing
// state unchanged.
func (r *Registry) State(kind string, cfg Config) *BackoffState {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[kind]
	if !ok {
		s = NewBackoffState(cfg.MinWait, cfg.InitialWait, cfg.Timeout, cfg.IncreaseScalar, cfg.DecreaseStep)
		r.states[kind] = s
	}
	return s
}

// Reset removes the state for kind, so the next caller of that kind starts
// from its configured initial values.
func (r *Registry) Reset(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, kind)
}

// DefaultRegistry is the process-wide registry used when no registry is
// injected with WithRegistry.
var DefaultRegistry = NewRegistry()
