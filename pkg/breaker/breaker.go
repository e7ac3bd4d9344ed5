// Package breaker implements the per-processor dual-constraint rolling
// window circuit breaker guarding every attempt the fallback engine makes.
package breaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/logger"
)

// State is one of the three breaker states.
type State string

const (
	Closed   State = "CLOSED"
	Open     State = "OPEN"
	HalfOpen State = "HALF_OPEN"
)

// Config carries the rolling-window and trip parameters for one breaker.
// All fields are read once at construction.
type Config struct {
	WindowSize      int
	WindowSeconds   time.Duration
	TripThreshold   float64
	CooldownSeconds time.Duration
}

// DefaultConfig matches the recognised configuration defaults.
func DefaultConfig() Config {
	return Config{
		WindowSize:      50,
		WindowSeconds:   300 * time.Second,
		TripThreshold:   0.20,
		CooldownSeconds: 120 * time.Second,
	}
}

// minSamples is the minimum-sample gate: tripping never fires below this
// many samples in the window, regardless of success rate. Prevents
// cold-start tripping on the first handful of calls.
const minSamples = 5

type sample struct {
	at      time.Time
	success bool
}

// CircuitBreaker is a single processor's breaker. All operations acquire
// mu; state is never read without the lock held.
type CircuitBreaker struct {
	mu sync.Mutex

	name   string
	config Config
	logger *logger.Logger

	state          State
	window         []sample
	openedAt       time.Time
	lastFailureAt  time.Time
	hasLastFailure bool
	probeInFlight  bool
}

// New constructs a breaker in the CLOSED state.
func New(name string, config Config, log *logger.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		name:   name,
		config: config,
		logger: log,
		state:  Closed,
	}
}

// AllowRequest reports whether a call to the guarded processor may proceed
// right now. It may transition OPEN to HALF_OPEN as a side effect.
func (cb *CircuitBreaker) AllowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case Closed:
		return true
	case Open:
		if time.Since(cb.openedAt) >= cb.config.CooldownSeconds {
			cb.transitionToHalfOpen()
			cb.probeInFlight = true
			return true
		}
		return false
	case HalfOpen:
		if !cb.probeInFlight {
			cb.probeInFlight = true
			return true
		}
		return false
	default:
		return false
	}
}

// RecordSuccess appends a success sample and applies the HALF_OPEN->CLOSED
// transition rule.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.addSample(true)
	if cb.state == HalfOpen {
		cb.transitionToClosed()
	}
}

// RecordFailure appends a failure sample, records the failure timestamp,
// and applies either the HALF_OPEN->OPEN transition or (in CLOSED)
// evaluates whether the rolling window just tripped the breaker.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	cb.lastFailureAt = now
	cb.hasLastFailure = true
	cb.addSample(false)

	switch cb.state {
	case HalfOpen:
		cb.transitionToOpen(now)
	case Closed:
		cb.evaluateTrip(now)
	}
}

// Reset empties the window and returns the breaker to CLOSED.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.window = nil
	cb.state = Closed
	cb.openedAt = time.Time{}
	cb.lastFailureAt = time.Time{}
	cb.hasLastFailure = false
	cb.probeInFlight = false
}

// InjectFailures appends n failure samples and, if the breaker is
// currently CLOSED, evaluates whether they trip it. Admin/testing only.
func (cb *CircuitBreaker) InjectFailures(n int) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	for i := 0; i < n; i++ {
		cb.lastFailureAt = now
		cb.hasLastFailure = true
		cb.addSample(false)
	}
	if cb.state == Closed {
		cb.evaluateTrip(now)
	}
}

// Snapshot is a pure value describing the breaker's current status.
type Snapshot struct {
	State                    string
	SuccessRate              *float64
	TotalCalls               int
	SuccessfulCalls          int
	FailedCalls              int
	LastFailureAt            *string
	CooldownRemainingSeconds *float64
}

// StatusSnapshot returns a point-in-time, race-free view of the breaker.
func (cb *CircuitBreaker) StatusSnapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.evictStale(time.Now())

	total := len(cb.window)
	successful := 0
	for _, s := range cb.window {
		if s.success {
			successful++
		}
	}

	snap := Snapshot{
		State:           string(cb.state),
		TotalCalls:      total,
		SuccessfulCalls: successful,
		FailedCalls:     total - successful,
	}
	if total > 0 {
		rate := float64(successful) / float64(total)
		snap.SuccessRate = &rate
	}
	if cb.hasLastFailure {
		age := time.Since(cb.lastFailureAt).Seconds()
		formatted := fmt.Sprintf("%.1fs ago", age)
		snap.LastFailureAt = &formatted
	}
	if cb.state == Open {
		remaining := cb.config.CooldownSeconds.Seconds() - time.Since(cb.openedAt).Seconds()
		if remaining < 0 {
			remaining = 0
		}
		snap.CooldownRemainingSeconds = &remaining
	}
	return snap
}

// Name returns the processor name this breaker guards.
func (cb *CircuitBreaker) Name() string { return cb.name }

func (cb *CircuitBreaker) addSample(success bool) {
	now := time.Now()
	cb.window = append(cb.window, sample{at: now, success: success})
	cb.evictStale(now)
}

// evictStale applies both window constraints: age and size. A sample is
// evicted if it is older than WindowSeconds, or if the window already
// holds more than WindowSize entries (oldest first).
func (cb *CircuitBreaker) evictStale(now time.Time) {
	cutoff := now.Add(-cb.config.WindowSeconds)
	i := 0
	for i < len(cb.window) && cb.window[i].at.Before(cutoff) {
		i++
	}
	cb.window = cb.window[i:]

	if len(cb.window) > cb.config.WindowSize {
		cb.window = cb.window[len(cb.window)-cb.config.WindowSize:]
	}
}

// evaluateTrip checks the minimum-sample gate and trip threshold, tripping
// the breaker to OPEN when both conditions hold.
func (cb *CircuitBreaker) evaluateTrip(now time.Time) {
	total := len(cb.window)
	if total < minSamples {
		return
	}
	successful := 0
	for _, s := range cb.window {
		if s.success {
			successful++
		}
	}
	rate := float64(successful) / float64(total)
	if rate < cb.config.TripThreshold {
		cb.transitionToOpen(now)
	}
}

func (cb *CircuitBreaker) transitionToOpen(now time.Time) {
	if cb.logger != nil {
		cb.logger.Warn("circuit breaker tripped open",
			"processor", cb.name,
			"from_state", cb.state,
		)
	}
	cb.state = Open
	cb.openedAt = now
	cb.probeInFlight = false
}

func (cb *CircuitBreaker) transitionToHalfOpen() {
	if cb.logger != nil {
		cb.logger.Info("circuit breaker half-opening for probe", "processor", cb.name)
	}
	cb.state = HalfOpen
}

func (cb *CircuitBreaker) transitionToClosed() {
	if cb.logger != nil {
		cb.logger.Info("circuit breaker closed after successful probe", "processor", cb.name)
	}
	cb.state = Closed
	cb.openedAt = time.Time{}
	cb.probeInFlight = false
}
