// Package circuitbreaker tracks tax provider health so the webhook can
// fail fast instead of burning its deadline on a provider that is down.
// It never retries anything; it only decides whether a call may be made.
package circuitbreaker

import (
	"sync"
	"time"
)

// State of one provider's circuit.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
	defaultProbeSuccesses   = 2
)

type providerState struct {
	state                State
	consecutiveFailures  int
	consecutiveSuccesses int
	openUntil            time.Time
}

// CircuitBreaker keeps an in-memory circuit per provider name. All methods
// are safe for concurrent use by webhook handlers.
type CircuitBreaker struct {
	mu        sync.RWMutex
	providers map[string]*providerState

	failureThreshold int
	openTimeout      time.Duration
	probeSuccesses   int
}

// New creates a breaker with the default thresholds.
func New() *CircuitBreaker {
	return NewWithSettings(defaultFailureThreshold, defaultOpenTimeout, defaultProbeSuccesses)
}

// NewWithSettings creates a breaker with custom thresholds: failures to
// open, how long the circuit stays open, and probe successes to close.
func NewWithSettings(failureThreshold int, openTimeout time.Duration, probeSuccesses int) *CircuitBreaker {
	return &CircuitBreaker{
		providers:        make(map[string]*providerState),
		failureThreshold: failureThreshold,
		openTimeout:      openTimeout,
		probeSuccesses:   probeSuccesses,
	}
}

// caller must hold the write lock
func (cb *CircuitBreaker) stateOf(provider string) *providerState {
	ps, ok := cb.providers[provider]
	if !ok {
		ps = &providerState{state: Closed}
		cb.providers[provider] = ps
	}
	return ps
}

// IsHealthy reports whether a call to the provider may proceed. An Open
// circuit whose timeout has elapsed transitions to HalfOpen here, so the
// next request becomes the probe.
func (cb *CircuitBreaker) IsHealthy(provider string) bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	ps := cb.stateOf(provider)
	switch ps.state {
	case Open:
		if time.Now().After(ps.openUntil) {
			ps.state = HalfOpen
			ps.consecutiveSuccesses = 0
			return true
		}
		return false
	default:
		return true
	}
}

// RecordFailure feeds a failed provider call into the circuit.
func (cb *CircuitBreaker) RecordFailure(provider string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	ps := cb.stateOf(provider)
	switch ps.state {
	case Closed:
		ps.consecutiveFailures++
		if ps.consecutiveFailures >= cb.failureThreshold {
			ps.state = Open
			ps.openUntil = time.Now().Add(cb.openTimeout)
		}
	case HalfOpen:
		// A failed probe re-opens immediately.
		ps.state = Open
		ps.openUntil = time.Now().Add(cb.openTimeout)
		ps.consecutiveFailures = 0
		ps.consecutiveSuccesses = 0
	}
}

// RecordSuccess feeds a successful provider call into the circuit.
func (cb *CircuitBreaker) RecordSuccess(provider string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	ps := cb.stateOf(provider)
	switch ps.state {
	case Closed:
		ps.consecutiveFailures = 0
	case HalfOpen:
		ps.consecutiveSuccesses++
		if ps.consecutiveSuccesses >= cb.probeSuccesses {
			ps.state = Closed
			ps.consecutiveFailures = 0
			ps.consecutiveSuccesses = 0
		}
	}
}

// GetState reads the current state without triggering transitions.
func (cb *CircuitBreaker) GetState(provider string) State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	ps, ok := cb.providers[provider]
	if !ok {
		return Closed
	}
	return ps.state
}
