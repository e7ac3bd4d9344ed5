package processor

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/money"
)

// outcomeEntry is one row of a cumulative-probability outcome table: the
// processor rolls a uniform [0,1) value and picks the first entry whose
// CumulativeProb is >= the roll.
type outcomeEntry struct {
	CumulativeProb float64
	Status         Status
}

// cardOverride forces a deterministic outcome for a given card_last_four,
// independent of the random outcome table. Used by tests to drive specific
// scenarios without relying on randomness.
type cardOverride struct {
	Status      Status
	DeclineCode string
}

// Mockable is a processor whose Charge outcome is driven by a weighted
// random table, with deterministic per-card overrides checked first.
// Concrete processors (VortexPay, SwiftPay, PixFlow) are thin
// configurations of this base, mirroring how the source system's
// MockableProcessor underlies each named gateway.
type Mockable struct {
	name         string
	feeRate      decimal.Decimal
	latencyMinMS float64
	latencyMaxMS float64
	outcomes     []outcomeEntry
	softCodes    []string
	hardCodes    []string
	overrides    map[string]cardOverride
}

// NewMockable builds a configured mock processor. latencyRangeMS is
// [min, max] milliseconds of simulated network latency.
func NewMockable(
	name string,
	feeRate decimal.Decimal,
	latencyRangeMS [2]float64,
	outcomes []outcomeEntry,
	softCodes, hardCodes []string,
	overrides map[string]cardOverride,
) *Mockable {
	return &Mockable{
		name:         name,
		feeRate:      feeRate,
		latencyMinMS: latencyRangeMS[0],
		latencyMaxMS: latencyRangeMS[1],
		outcomes:     outcomes,
		softCodes:    softCodes,
		hardCodes:    hardCodes,
		overrides:    overrides,
	}
}

func (m *Mockable) Name() string            { return m.name }
func (m *Mockable) FeeRate() decimal.Decimal { return m.feeRate }

func (m *Mockable) simulatedLatency() time.Duration {
	ms := m.latencyMinMS + rand.Float64()*(m.latencyMaxMS-m.latencyMinMS)
	return time.Duration(ms * float64(time.Millisecond))
}

func (m *Mockable) pickOutcome() Status {
	roll := rand.Float64()
	for _, e := range m.outcomes {
		if roll <= e.CumulativeProb {
			return e.Status
		}
	}
	return Success
}

func (m *Mockable) pickCode(codes []string) string {
	if len(codes) == 0 {
		return "n/a"
	}
	return codes[rand.Intn(len(codes))]
}

// Charge simulates a downstream call: it sleeps the configured latency
// range, applies any deterministic card override, else rolls the outcome
// table, and builds a Result. It never panics and never returns
// CircuitOpen — that status is engine-internal.
func (m *Mockable) Charge(ctx context.Context, req TransactionRequest) Result {
	start := time.Now()
	delay := m.simulatedLatency()
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return Result{
			ProcessorName: m.name,
			Status:        Timeout,
			LatencyMS:     float64(time.Since(start).Milliseconds()),
		}
	}

	status := m.pickOutcome()
	var declineCode string
	if ov, ok := m.overrides[req.CardLastFour]; ok {
		status = ov.Status
		declineCode = ov.DeclineCode
	}

	latencyMS := float64(time.Since(start).Milliseconds())

	switch status {
	case Success:
		fee := money.Fee(req.Amount, m.feeRate)
		return Result{
			ProcessorName: m.name,
			Status:        Success,
			Amount:        req.Amount,
			Fee:           fee,
			FeeRate:       m.feeRate,
			LatencyMS:     latencyMS,
			RawResponse:   map[string]string{"code": "00", "message": "Approved"},
		}
	case SoftDecline:
		if declineCode == "" {
			declineCode = m.pickCode(m.softCodes)
		}
		return Result{
			ProcessorName: m.name,
			Status:        SoftDecline,
			DeclineCode:   declineCode,
			DeclineType:   DeclineSoft,
			LatencyMS:     latencyMS,
			RawResponse:   map[string]string{"code": "51", "message": declineCode},
		}
	case HardDecline:
		if declineCode == "" {
			declineCode = m.pickCode(m.hardCodes)
		}
		return Result{
			ProcessorName: m.name,
			Status:        HardDecline,
			DeclineCode:   declineCode,
			DeclineType:   DeclineHard,
			LatencyMS:     latencyMS,
			RawResponse:   map[string]string{"code": "05", "message": declineCode},
		}
	case RateLimited:
		return Result{
			ProcessorName: m.name,
			Status:        RateLimited,
			DeclineCode:   "rate_limit_exceeded",
			DeclineType:   DeclineRateLimit,
			LatencyMS:     latencyMS,
			RawResponse:   map[string]string{"code": "429", "message": "rate_limit_exceeded"},
		}
	case Timeout:
		return Result{
			ProcessorName: m.name,
			Status:        Timeout,
			LatencyMS:     latencyMS,
			RawResponse:   map[string]string{"code": "timeout", "message": "gateway did not respond"},
		}
	default:
		return Result{
			ProcessorName: m.name,
			Status:        SoftDecline,
			DeclineCode:   fmt.Sprintf("unknown_status:%s", status),
			DeclineType:   DeclineSoft,
			LatencyMS:     latencyMS,
		}
	}
}
