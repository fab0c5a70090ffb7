// Package resilience provides the circuit breaker guarding the primary
// translation provider.
//
// The breaker is the classic three-state machine (closed → open → half-open).
// When the primary translator has failed often enough in a row, the
// orchestrator stops paying its timeout on every segment and routes straight
// to the fallback provider; after a cool-down a single probe call decides
// whether the primary is healthy again. The fallback semantics themselves are
// unchanged — the breaker only decides whether the primary is worth trying.
//
// All types are safe for concurrent use.
package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrOpen is returned by [Breaker.Allow] while the breaker is open and the
// cool-down has not yet elapsed.
var ErrOpen = errors.New("resilience: breaker is open")

// State represents the current operating mode of a [Breaker].
type State int

const (
	// StateClosed is the normal operating state — calls go through.
	StateClosed State = iota

	// StateOpen means consecutive failures tripped the breaker; calls are
	// rejected until the cool-down elapses.
	StateOpen

	// StateHalfOpen is the probe state after cool-down: one call is let
	// through to decide whether to close or re-open.
	StateHalfOpen
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds tuning knobs for a [Breaker].
type BreakerConfig struct {
	// Name is a human-readable label used in log messages.
	Name string

	// MaxFailures is the number of consecutive failures in the closed state
	// before the breaker opens. Default: 3.
	MaxFailures int

	// CoolDown is how long the breaker stays open before allowing a probe.
	// Default: 30s.
	CoolDown time.Duration
}

// Breaker implements the three-state circuit breaker pattern with a
// single-probe half-open state. Use [Breaker.Allow] before the guarded call
// and report the outcome with [Breaker.Record].
type Breaker struct {
	name        string
	maxFailures int
	coolDown    time.Duration

	mu              sync.Mutex
	state           State
	consecutiveFail int
	lastFailure     time.Time
	probing         bool
}

// NewBreaker creates a [Breaker] with the supplied configuration. Zero-value
// config fields are replaced with defaults.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 3
	}
	if cfg.CoolDown <= 0 {
		cfg.CoolDown = 30 * time.Second
	}
	return &Breaker{
		name:        cfg.Name,
		maxFailures: cfg.MaxFailures,
		coolDown:    cfg.CoolDown,
		state:       StateClosed,
	}
}

// Allow reports whether the guarded call may proceed. In the open state it
// returns [ErrOpen] until the cool-down elapses, at which point the breaker
// moves to half-open and admits exactly one probe call.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if time.Since(b.lastFailure) < b.coolDown {
			return ErrOpen
		}
		b.state = StateHalfOpen
		b.probing = true
		slog.Info("breaker transitioning to half-open", "name", b.name)
		return nil

	case StateHalfOpen:
		if b.probing {
			return ErrOpen
		}
		b.probing = true
		return nil
	}
	return nil
}

// Record reports the outcome of a call admitted by [Breaker.Allow]. A failed
// probe re-opens the breaker immediately; a successful probe closes it.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.probing = false
		if err != nil {
			b.state = StateOpen
			b.lastFailure = time.Now()
			slog.Warn("breaker re-opened from half-open", "name", b.name)
		} else {
			b.state = StateClosed
			b.consecutiveFail = 0
			slog.Info("breaker closed after successful probe", "name", b.name)
		}
		return
	}

	if err != nil {
		b.consecutiveFail++
		b.lastFailure = time.Now()
		if b.consecutiveFail >= b.maxFailures {
			b.state = StateOpen
			slog.Warn("breaker opened",
				"name", b.name,
				"consecutive_failures", b.consecutiveFail)
		}
		return
	}
	b.consecutiveFail = 0
}

// State returns the breaker's current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
