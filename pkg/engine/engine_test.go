package engine

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/breaker"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/idempotency"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/money"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/processor"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/stats"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/tests/testutil"
)

// scriptedProcessor is a deterministic processor.Port test double: each
// Charge call pops the next entry off a scripted results queue and
// records that it was invoked, so tests can assert uninvoked processors
// (e.g. behind a tripped breaker) stay uninvoked.
type scriptedProcessor struct {
	name    string
	feeRate decimal.Decimal
	script  []processor.Result
	calls   int
}

func newScripted(name string, feeRate float64, script ...processor.Result) *scriptedProcessor {
	return &scriptedProcessor{name: name, feeRate: decimal.NewFromFloat(feeRate), script: script}
}

func (p *scriptedProcessor) Name() string            { return p.name }
func (p *scriptedProcessor) FeeRate() decimal.Decimal { return p.feeRate }

func (p *scriptedProcessor) Charge(ctx context.Context, req processor.TransactionRequest) processor.Result {
	idx := p.calls
	p.calls++
	if idx >= len(p.script) {
		return processor.Result{ProcessorName: p.name, Status: processor.Success, Amount: req.Amount}
	}
	result := p.script[idx]
	result.ProcessorName = p.name
	if result.Status == processor.Success {
		result.Amount = req.Amount
		result.FeeRate = p.feeRate
		result.Fee = money.Fee(req.Amount, p.feeRate)
	}
	return result
}

func testConfig() Config {
	return Config{
		BackoffBaseSeconds:      0.001,
		BackoffMaxSeconds:       0.01,
		BackoffMaxRetries:       2,
		ProcessorTimeoutSeconds: 1.0,
	}
}

// EngineTestSuite covers the fallback ordering, retry, breaker-skip and
// idempotency scenarios end to end against scripted processors.
type EngineTestSuite struct {
	suite.Suite
}

func (s *EngineTestSuite) newEngine(processors []processor.Port) (*FallbackEngine, *breaker.Registry, *stats.Service) {
	registry := breaker.NewRegistry(breaker.DefaultConfig(), nil)
	statsService := stats.New()
	cache := idempotency.New(idempotency.DefaultTTL)
	return New(processors, registry, statsService, cache, testConfig(), nil), registry, statsService
}

func (s *EngineTestSuite) TestS1_HappyPath() {
	vortex := newScripted("VortexPay", 0.025, processor.Result{Status: processor.Success})
	swift := newScripted("SwiftPay", 0.029)
	pix := newScripted("PixFlow", 0.032)

	eng, _, _ := s.newEngine([]processor.Port{vortex, swift, pix})
	req := testutil.TestTransactionRequest(func(r *processor.TransactionRequest) {
		r.Amount = decimal.NewFromFloat(100.00)
	})

	resp := eng.Process(context.Background(), req)

	s.Equal("approved", resp.Status)
	s.Equal("VortexPay", resp.ProcessorUsed)
	s.Equal(1, resp.Attempts)
	s.True(resp.Fee.Equal(decimal.NewFromFloat(2.50)), "got %s", resp.Fee)
	s.Equal(0, swift.calls)
	s.Equal(0, pix.calls)
}

func (s *EngineTestSuite) TestS2_SoftThenSuccess() {
	vortex := newScripted("VortexPay", 0.025, processor.Result{Status: processor.SoftDecline, DeclineCode: "insufficient_funds", DeclineType: processor.DeclineSoft})
	swift := newScripted("SwiftPay", 0.029, processor.Result{Status: processor.Success})
	pix := newScripted("PixFlow", 0.032)

	eng, _, _ := s.newEngine([]processor.Port{vortex, swift, pix})
	req := testutil.TestTransactionRequest()

	resp := eng.Process(context.Background(), req)

	s.Equal("approved", resp.Status)
	s.Equal("SwiftPay", resp.ProcessorUsed)
	s.Equal(2, resp.Attempts)
}

func (s *EngineTestSuite) TestS3_HardDeclineShortCircuits() {
	vortex := newScripted("VortexPay", 0.025, processor.Result{Status: processor.HardDecline, DeclineCode: "stolen_card", DeclineType: processor.DeclineHard})
	swift := newScripted("SwiftPay", 0.029)
	pix := newScripted("PixFlow", 0.032)

	eng, _, _ := s.newEngine([]processor.Port{vortex, swift, pix})
	req := testutil.TestTransactionRequest()

	resp := eng.Process(context.Background(), req)

	s.Equal("declined", resp.Status)
	s.Equal("hard", resp.DeclineType)
	s.Equal(1, resp.Attempts)
	s.Equal(0, swift.calls)
	s.Equal(0, pix.calls)
}

func (s *EngineTestSuite) TestS4_AllSoftDeclineExhausted() {
	soft := func() processor.Result {
		return processor.Result{Status: processor.SoftDecline, DeclineCode: "do_not_honor", DeclineType: processor.DeclineSoft}
	}
	vortex := newScripted("VortexPay", 0.025, soft())
	swift := newScripted("SwiftPay", 0.029, soft())
	pix := newScripted("PixFlow", 0.032, soft())

	eng, _, _ := s.newEngine([]processor.Port{vortex, swift, pix})
	req := testutil.TestTransactionRequest()

	resp := eng.Process(context.Background(), req)

	s.Equal("declined", resp.Status)
	s.Equal(3, resp.Attempts)
	s.Len(resp.ProcessorsTried, 3)
}

func (s *EngineTestSuite) TestS5_RateLimitBackoffThenSuccess() {
	rl := processor.Result{Status: processor.RateLimited, DeclineCode: "rate_limit_exceeded", DeclineType: processor.DeclineRateLimit}
	vortex := newScripted("VortexPay", 0.025, rl, rl, processor.Result{Status: processor.Success})
	swift := newScripted("SwiftPay", 0.029)

	eng, _, _ := s.newEngine([]processor.Port{vortex, swift})
	req := testutil.TestTransactionRequest()

	resp := eng.Process(context.Background(), req)

	s.Equal("approved", resp.Status)
	s.Equal("VortexPay", resp.ProcessorUsed)
	s.Equal(3, vortex.calls)
	s.Len(resp.RetryLog, 2)
	s.Equal(0, swift.calls)
}

func (s *EngineTestSuite) TestS6_CostOrderingNonBRL() {
	pix := newScripted("PixFlow", 0.032, processor.Result{Status: processor.SoftDecline, DeclineType: processor.DeclineSoft})
	swift := newScripted("SwiftPay", 0.029, processor.Result{Status: processor.SoftDecline, DeclineType: processor.DeclineSoft})
	vortex := newScripted("VortexPay", 0.025, processor.Result{Status: processor.SoftDecline, DeclineType: processor.DeclineSoft})

	// Declared order is [PixFlow, SwiftPay, VortexPay]; ascending fee_rate
	// for non-BRL reorders to [VortexPay, SwiftPay, PixFlow].
	eng, _, _ := s.newEngine([]processor.Port{pix, swift, vortex})
	req := testutil.TestTransactionRequest(func(r *processor.TransactionRequest) {
		r.Currency = processor.USD
	})

	resp := eng.Process(context.Background(), req)

	s.Require().Len(resp.ProcessorsTried, 3)
	s.Contains(resp.ProcessorsTried[0], "VortexPay")
	s.Contains(resp.ProcessorsTried[1], "SwiftPay")
	s.Contains(resp.ProcessorsTried[2], "PixFlow")
}

func (s *EngineTestSuite) TestS7_BRLPrefersPixFlowFirst() {
	vortex := newScripted("VortexPay", 0.025, processor.Result{Status: processor.SoftDecline, DeclineType: processor.DeclineSoft})
	swift := newScripted("SwiftPay", 0.029, processor.Result{Status: processor.SoftDecline, DeclineType: processor.DeclineSoft})
	pix := newScripted("PixFlow", 0.032, processor.Result{Status: processor.SoftDecline, DeclineType: processor.DeclineSoft})

	eng, _, _ := s.newEngine([]processor.Port{vortex, swift, pix})
	req := testutil.TestTransactionRequest(func(r *processor.TransactionRequest) {
		r.Currency = processor.BRL
	})

	resp := eng.Process(context.Background(), req)

	s.Require().Len(resp.ProcessorsTried, 3)
	s.Contains(resp.ProcessorsTried[0], "PixFlow")
	s.Contains(resp.ProcessorsTried[1], "VortexPay")
	s.Contains(resp.ProcessorsTried[2], "SwiftPay")
}

func (s *EngineTestSuite) TestS8_BreakerSkipsTrippedProcessor() {
	vortex := newScripted("VortexPay", 0.025, processor.Result{Status: processor.Success})
	swift := newScripted("SwiftPay", 0.029, processor.Result{Status: processor.Success})

	eng, registry, _ := s.newEngine([]processor.Port{vortex, swift})
	registry.Get("VortexPay").InjectFailures(6)

	req := testutil.TestTransactionRequest()
	resp := eng.Process(context.Background(), req)

	s.Equal("approved", resp.Status)
	s.Equal("SwiftPay", resp.ProcessorUsed)
	s.Equal(1, resp.Attempts)
	s.Equal(0, vortex.calls, "tripped breaker must prevent charge from ever being invoked")
	s.Require().Len(resp.ProcessorsTried, 2)
	s.Contains(resp.ProcessorsTried[0], "VortexPay(circuit_open)")
}

func (s *EngineTestSuite) TestS9_IdempotentReplayReturnsCachedResponse() {
	vortex := newScripted("VortexPay", 0.025, processor.Result{Status: processor.Success})

	eng, _, _ := s.newEngine([]processor.Port{vortex})
	req := testutil.TestTransactionRequest(func(r *processor.TransactionRequest) {
		r.TransactionID = "x"
	})

	first := eng.Process(context.Background(), req)
	time.Sleep(2 * time.Millisecond)
	second := eng.Process(context.Background(), req)

	s.Equal(first.ProcessedAt, second.ProcessedAt)
	s.Equal(1, vortex.calls, "a cached replay must not invoke the processor again")
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
