// Package backoff implements the full-jitter exponential backoff policy
// used by the fallback engine's rate-limit retry loop.
package backoff

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Policy holds the base, cap and jitter toggle for a retry sequence.
type Policy struct {
	Base   time.Duration
	Cap    time.Duration
	Jitter bool
}

// DefaultPolicy returns the policy matching the recognised configuration
// defaults (BACKOFF_BASE_SECONDS=0.5, BACKOFF_MAX_SECONDS=30.0).
func DefaultPolicy() Policy {
	return Policy{
		Base:   500 * time.Millisecond,
		Cap:    30 * time.Second,
		Jitter: true,
	}
}

// Delay computes the delay for the given 0-based attempt index without
// sleeping. The uncapped value is base * 2^attempt; the capped value is
// min(cap, uncapped). With jitter enabled the result is uniform(0, capped)
// (full-jitter); without it, the capped value itself.
//
// The returned delay is always in [0, cap].
func (p Policy) Delay(attempt int) time.Duration {
	uncapped := float64(p.Base) * math.Pow(2, float64(attempt))
	capped := math.Min(float64(p.Cap), uncapped)
	if capped < 0 {
		capped = 0
	}
	if !p.Jitter {
		return time.Duration(capped)
	}
	return time.Duration(rand.Float64() * capped)
}

// Wait computes the delay for attempt and blocks for that long, returning
// the delay actually applied so callers can log it.
func (p Policy) Wait(attempt int) time.Duration {
	d := p.Delay(attempt)
	time.Sleep(d)
	return d
}

// WaitContext behaves like Wait but returns early if ctx is cancelled
// before the delay elapses. It still returns the delay that was computed
// (not the time actually slept) so retry-log entries reflect the policy's
// decision rather than the cancellation.
func (p Policy) WaitContext(ctx context.Context, attempt int) time.Duration {
	d := p.Delay(attempt)
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	return d
}
