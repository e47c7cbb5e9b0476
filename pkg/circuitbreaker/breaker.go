// Package circuitbreaker isolates the planner from external recipe sources
// that keep failing.
package circuitbreaker

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrOpen is returned without calling the protected function while the
// breaker is open.
var ErrOpen = errors.New("circuit breaker is open")

// State represents the state of a circuit breaker
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Config holds configuration for a circuit breaker
type Config struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit
	FailureThreshold int

	// SuccessThreshold is the number of half-open successes that closes it again
	SuccessThreshold int

	// Timeout is how long the circuit stays open before probing
	Timeout time.Duration

	// MaxRequests caps concurrent probes while half-open
	MaxRequests int

	OnStateChange func(name string, from, to State)
}

// DefaultConfig returns the configuration used when a provider sets none.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

// Stats holds counters about breaker activity
type Stats struct {
	TotalRequests        int64
	TotalFailures        int64
	TotalRejections      int64
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
}

// CircuitBreaker implements the circuit breaker pattern
type CircuitBreaker struct {
	name        string
	config      Config
	state       State
	stats       Stats
	inFlight    int
	nextAttempt time.Time
	now         func() time.Time
	mu          sync.Mutex
}

// New creates a circuit breaker, filling unset configuration with defaults.
func New(name string, config Config) *CircuitBreaker {
	defaults := DefaultConfig()
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = defaults.SuccessThreshold
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxRequests <= 0 {
		config.MaxRequests = defaults.MaxRequests
	}

	return &CircuitBreaker{
		name:   name,
		config: config,
		state:  StateClosed,
		now:    time.Now,
	}
}

// Name returns the breaker name
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Execute runs fn unless the circuit is open. The lock is not held while
// fn runs.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.before(); err != nil {
		return err
	}

	err := fn()
	cb.after(err)
	return err
}

func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.stats.TotalRequests++

	switch cb.state {
	case StateOpen:
		if cb.now().Before(cb.nextAttempt) {
			cb.stats.TotalRejections++
			return fmt.Errorf("%s: %w", cb.name, ErrOpen)
		}
		cb.setState(StateHalfOpen)
	case StateHalfOpen:
		if cb.inFlight >= cb.config.MaxRequests {
			cb.stats.TotalRejections++
			return fmt.Errorf("%s: %w", cb.name, ErrOpen)
		}
	}

	cb.inFlight++
	return nil
}

func (cb *CircuitBreaker) after(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.inFlight--

	if err != nil {
		cb.stats.TotalFailures++
		cb.stats.ConsecutiveSuccesses = 0
		cb.stats.ConsecutiveFailures++

		switch cb.state {
		case StateClosed:
			if cb.stats.ConsecutiveFailures >= cb.config.FailureThreshold {
				cb.setState(StateOpen)
			}
		case StateHalfOpen:
			cb.setState(StateOpen)
		}
		return
	}

	cb.stats.ConsecutiveFailures = 0
	cb.stats.ConsecutiveSuccesses++
	if cb.state == StateHalfOpen && cb.stats.ConsecutiveSuccesses >= cb.config.SuccessThreshold {
		cb.setState(StateClosed)
	}
}

func (cb *CircuitBreaker) setState(newState State) {
	if cb.state == newState {
		return
	}

	oldState := cb.state
	cb.state = newState

	switch newState {
	case StateOpen:
		cb.nextAttempt = cb.now().Add(cb.config.Timeout)
	case StateHalfOpen:
		cb.stats.ConsecutiveSuccesses = 0
	case StateClosed:
		cb.stats.ConsecutiveFailures = 0
		cb.stats.ConsecutiveSuccesses = 0
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.name, oldState, newState)
	}
}

// State returns the current state of the circuit breaker
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats returns a copy of the breaker counters
func (cb *CircuitBreaker) Stats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stats
}

// Reset closes the breaker and clears its counters
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.setState(StateClosed)
	cb.stats = Stats{}
	cb.nextAttempt = time.Time{}
}
