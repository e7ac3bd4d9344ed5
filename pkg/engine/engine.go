// Package engine implements the fallback orchestration engine: for each
// request it computes the processor order, guards each attempt with a
// circuit breaker, applies per-attempt timeout and rate-limit backoff,
// interprets outcomes, updates stats and breaker state, and caches the
// final response by transaction id.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/backoff"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/breaker"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/idempotency"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/logger"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/money"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/processor"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/stats"
)

// FallbackEngine is the orchestrator. It holds no per-request state; all
// per-request bookkeeping lives on the stack of Process.
type FallbackEngine struct {
	processors []processor.Port
	breakers   *breaker.Registry
	stats      *stats.Service
	cache      *idempotency.Cache
	backoff    backoff.Policy
	config     Config
	logger     *logger.Logger
}

// New constructs the engine over a fixed processor set. The processor
// order passed here is the "declared order" referenced by the ordering
// rule's tie-break.
func New(
	processors []processor.Port,
	breakers *breaker.Registry,
	statsService *stats.Service,
	cache *idempotency.Cache,
	config Config,
	log *logger.Logger,
) *FallbackEngine {
	return &FallbackEngine{
		processors: processors,
		breakers:   breakers,
		stats:      statsService,
		cache:      cache,
		backoff: backoff.Policy{
			Base:   time.Duration(config.BackoffBaseSeconds * float64(time.Second)),
			Cap:    time.Duration(config.BackoffMaxSeconds * float64(time.Second)),
			Jitter: true,
		},
		config: config,
		logger: log,
	}
}

// Process is the engine's single public operation: deterministic and
// idempotent per transaction id for the cache's TTL.
func (e *FallbackEngine) Process(ctx context.Context, req processor.TransactionRequest) processor.Response {
	start := time.Now()

	lookup, cached := e.cache.CheckAndClaim(req.TransactionID)
	if lookup == idempotency.Cached {
		return cached
	}

	order := e.orderedProcessors(req.Currency)

	var (
		attempts        int
		processorsTried []string
		retryLog        []string
		lastResult      processor.Result
		haveLastResult  bool
	)

	for _, p := range order {
		cb := e.breakers.Get(p.Name())

		if !cb.AllowRequest() {
			lastResult = processor.Result{ProcessorName: p.Name(), Status: processor.CircuitOpen}
			haveLastResult = true
			processorsTried = append(processorsTried, fmt.Sprintf("%s(circuit_open)", p.Name()))
			continue
		}

	backoffLoop:
		for backoffAttempt := 0; backoffAttempt <= e.config.BackoffMaxRetries; backoffAttempt++ {
			if backoffAttempt > 0 {
				delay := e.backoff.WaitContext(ctx, backoffAttempt-1)
				retryLog = append(retryLog, fmt.Sprintf("%s: retry %d after %s", p.Name(), backoffAttempt, delay))
			}

			attempts++
			result := e.chargeWithTimeout(ctx, p, req)
			lastResult = result
			haveLastResult = true
			e.stats.RecordAttempt(result)

			switch result.Status {
			case processor.Success:
				cb.RecordSuccess()
				processorsTried = append(processorsTried, fmt.Sprintf("%s(success)", p.Name()))
				e.stats.RecordFinal(true, result.Amount, result.Fee)
				resp := e.buildApproved(req, result, attempts, processorsTried, retryLog, start)
				e.cache.StoreAndEvict(req.TransactionID, resp)
				return resp

			case processor.HardDecline:
				cb.RecordFailure()
				processorsTried = append(processorsTried, fmt.Sprintf("%s(hard_decline:%s)", p.Name(), result.DeclineCode))
				e.stats.RecordFinal(false, req.Amount, money.Zero)
				resp := e.buildDeclined(req, result.DeclineCode, string(result.DeclineType), attempts, processorsTried, retryLog, start)
				resp.ProcessorUsed = p.Name()
				e.cache.StoreAndEvict(req.TransactionID, resp)
				return resp

			case processor.RateLimited:
				cb.RecordFailure()
				if backoffAttempt < e.config.BackoffMaxRetries {
					processorsTried = append(processorsTried, fmt.Sprintf("%s(rate_limited:retry_%d)", p.Name(), backoffAttempt+1))
					continue
				}
				processorsTried = append(processorsTried, fmt.Sprintf("%s(rate_limited:exhausted)", p.Name()))
				break backoffLoop

			default: // SOFT_DECLINE, TIMEOUT
				cb.RecordFailure()
				code := result.DeclineCode
				if code == "" {
					code = "n/a"
				}
				processorsTried = append(processorsTried, fmt.Sprintf("%s(%s:%s)", p.Name(), lower(result.Status), code))
				break backoffLoop
			}
		}
	}

	declineReason := "all_processors_failed"
	declineType := "soft"
	if haveLastResult {
		if lastResult.DeclineCode != "" {
			declineReason = lastResult.DeclineCode
		}
		if lastResult.DeclineType != "" {
			declineType = string(lastResult.DeclineType)
		}
	}
	e.stats.RecordFinal(false, req.Amount, money.Zero)
	resp := e.buildDeclined(req, declineReason, declineType, attempts, processorsTried, retryLog, start)
	e.cache.StoreAndEvict(req.TransactionID, resp)
	return resp
}

// chargeWithTimeout enforces the per-attempt deadline at the engine level:
// the processor call runs on its own goroutine, and if the deadline fires
// first the engine synthesises a TIMEOUT result and abandons the call
// without mutating further engine state from it.
func (e *FallbackEngine) chargeWithTimeout(ctx context.Context, p processor.Port, req processor.TransactionRequest) (result processor.Result) {
	timeout := e.config.processorTimeout()
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan processor.Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if e.logger != nil {
					e.logger.Warn("processor panicked during charge", "processor", p.Name(), "recover", r)
				}
				done <- processor.Result{ProcessorName: p.Name(), Status: processor.Timeout}
				return
			}
		}()
		done <- p.Charge(callCtx, req)
	}()

	select {
	case result = <-done:
		return result
	case <-callCtx.Done():
		return processor.Result{
			ProcessorName: p.Name(),
			Status:        processor.Timeout,
			LatencyMS:     e.config.ProcessorTimeoutSeconds * 1000,
		}
	}
}

// orderedProcessors applies the cost-aware, currency-aware ordering rule:
// BRL routes to PixFlow first, then ascending fee_rate; every other
// currency is a plain ascending fee_rate sort. Go's sort.SliceStable
// preserves the declared input order as the tie-break.
func (e *FallbackEngine) orderedProcessors(currency processor.Currency) []processor.Port {
	ordered := make([]processor.Port, len(e.processors))
	copy(ordered, e.processors)

	if currency == processor.BRL {
		sort.SliceStable(ordered, func(i, j int) bool {
			iPix := ordered[i].Name() == "PixFlow"
			jPix := ordered[j].Name() == "PixFlow"
			if iPix != jPix {
				return iPix
			}
			return ordered[i].FeeRate().LessThan(ordered[j].FeeRate())
		})
		return ordered
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].FeeRate().LessThan(ordered[j].FeeRate())
	})
	return ordered
}

func (e *FallbackEngine) buildApproved(
	req processor.TransactionRequest,
	result processor.Result,
	attempts int,
	processorsTried, retryLog []string,
	start time.Time,
) processor.Response {
	return processor.Response{
		TransactionID:   req.TransactionID,
		Status:          "approved",
		ProcessorUsed:   result.ProcessorName,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Fee:             result.Fee,
		FeeRate:         result.FeeRate,
		Attempts:        attempts,
		ProcessorsTried: nilToEmpty(processorsTried),
		RetryLog:        nilToEmpty(retryLog),
		LatencyMS:       float64(time.Since(start).Milliseconds()),
		ProcessedAt:     time.Now().UTC(),
	}
}

func (e *FallbackEngine) buildDeclined(
	req processor.TransactionRequest,
	declineReason, declineType string,
	attempts int,
	processorsTried, retryLog []string,
	start time.Time,
) processor.Response {
	return processor.Response{
		TransactionID:   req.TransactionID,
		Status:          "declined",
		Amount:          req.Amount,
		Currency:        req.Currency,
		DeclineReason:   declineReason,
		DeclineType:     declineType,
		Attempts:        attempts,
		ProcessorsTried: nilToEmpty(processorsTried),
		RetryLog:        nilToEmpty(retryLog),
		LatencyMS:       float64(time.Since(start).Milliseconds()),
		ProcessedAt:     time.Now().UTC(),
	}
}

func lower(s processor.Status) string {
	switch s {
	case processor.SoftDecline:
		return "soft_decline"
	case processor.Timeout:
		return "timeout"
	default:
		return string(s)
	}
}

func nilToEmpty(s []string) []string {
	if len(s) == 0 {
		return []string{}
	}
	return s
}
