package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelay_NeverExceedsCap(t *testing.T) {
	p := Policy{Base: 500 * time.Millisecond, Cap: 30 * time.Second, Jitter: true}

	for attempt := 0; attempt < 20; attempt++ {
		d := p.Delay(attempt)
		assert.LessOrEqual(t, d, p.Cap)
		assert.GreaterOrEqual(t, d, time.Duration(0))
	}
}

func TestDelay_GrowsExponentiallyBeforeCap(t *testing.T) {
	p := Policy{Base: 500 * time.Millisecond, Cap: 30 * time.Second, Jitter: false}

	assert.Equal(t, 500*time.Millisecond, p.Delay(0))
	assert.Equal(t, 1*time.Second, p.Delay(1))
	assert.Equal(t, 2*time.Second, p.Delay(2))
}

func TestDelay_CapsAtHighAttempts(t *testing.T) {
	p := Policy{Base: 500 * time.Millisecond, Cap: 30 * time.Second, Jitter: false}

	// base * 2^10 is far beyond the cap.
	assert.Equal(t, p.Cap, p.Delay(10))
}

func TestDelay_JitterIsUniformInRange(t *testing.T) {
	p := Policy{Base: 1 * time.Second, Cap: 30 * time.Second, Jitter: true}

	seenZero := false
	seenNearCap := false
	for i := 0; i < 500; i++ {
		d := p.Delay(5) // uncapped = 32s, capped = 30s
		if d < time.Second {
			seenZero = true
		}
		if d > 25*time.Second {
			seenNearCap = true
		}
		assert.LessOrEqual(t, d, p.Cap)
	}
	assert.True(t, seenZero, "expected some low-end samples from full jitter")
	assert.True(t, seenNearCap, "expected some high-end samples from full jitter")
}

func TestWaitContext_ReturnsEarlyOnCancellation(t *testing.T) {
	p := Policy{Base: 10 * time.Second, Cap: 30 * time.Second, Jitter: false}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	d := p.WaitContext(ctx, 0)
	elapsed := time.Since(start)

	assert.Equal(t, 10*time.Second, d, "reported delay reflects policy decision, not actual wait")
	assert.Less(t, elapsed, 1*time.Second, "cancelled context must not block for the full delay")
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 500*time.Millisecond, p.Base)
	assert.Equal(t, 30*time.Second, p.Cap)
	assert.True(t, p.Jitter)
}
