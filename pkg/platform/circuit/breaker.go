// Package circuit tracks consecutive failures of a remote dependency and
// reports when it should be considered down.
package circuit

import (
	"errors"
	"fmt"
	"sync"
)

// ErrOpen is returned by Healthy while the circuit is open.
var ErrOpen = errors.New("circuit open")

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the dependency answers normally.
	StateClosed State = iota
	// StateOpen means FailureThreshold calls in a row have failed.
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// Breaker counts outcomes reported through Record. It never blocks calls:
// every call while open acts as a probe, and SuccessThreshold successes in a
// row close the circuit again.
type Breaker struct {
	mu               sync.Mutex
	name             string
	state            State
	failureCount     int
	successCount     int
	failureThreshold int
	successThreshold int
	onChange         func(name string, to State)
}

// Option configures a Breaker instance.
type Option func(*Breaker)

// WithFailureThreshold sets the number of consecutive failures to open the circuit.
// Default is 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets the number of consecutive successes to close the circuit.
// Default is 2.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// WithOnChange registers a callback for state transitions. It runs without
// the breaker lock held.
func WithOnChange(fn func(name string, to State)) Option {
	return func(b *Breaker) {
		b.onChange = fn
	}
}

// New creates a circuit breaker with the given name and options.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		state:            StateClosed,
		failureThreshold: 5,
		successThreshold: 2,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Record counts one call outcome; a nil err is a success.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	changed := false
	if err != nil {
		b.failureCount++
		b.successCount = 0
		if b.state == StateClosed && b.failureCount >= b.failureThreshold {
			b.state = StateOpen
			changed = true
		}
	} else {
		b.failureCount = 0
		if b.state == StateOpen {
			b.successCount++
			if b.successCount >= b.successThreshold {
				b.state = StateClosed
				b.successCount = 0
				changed = true
			}
		}
	}
	to, onChange := b.state, b.onChange
	b.mu.Unlock()

	if changed && onChange != nil {
		onChange(b.name, to)
	}
}

// Healthy returns ErrOpen while the circuit is open. Its signature fits a
// readiness check.
func (b *Breaker) Healthy() error {
	if b.State() == StateOpen {
		return fmt.Errorf("%s: %w", b.name, ErrOpen)
	}
	return nil
}
