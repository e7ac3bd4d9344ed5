// Package stats accumulates per-attempt and per-transaction counters for
// the fallback engine's observability surface.
package stats

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/processor"
)

type processorCounters struct {
	count        int64
	volume       decimal.Decimal
	fees         decimal.Decimal
	success      int64
	hardDecline  int64
	softDecline  int64
	timeout      int64
	rateLimited  int64
	latencySumMS float64
}

// Service is the thread-safe accumulator. All mutations serialize through
// a single mutex; counters are process-lifetime only and are lost on
// restart.
type Service struct {
	mu sync.Mutex

	startedAt time.Time

	totalTransactions int64
	approved          int64
	declined          int64
	volume            decimal.Decimal
	fees              decimal.Decimal

	perProcessor map[string]*processorCounters
}

// New constructs an empty stats service, its uptime clock starting now.
func New() *Service {
	return &Service{
		startedAt:    time.Now(),
		volume:       decimal.Zero,
		fees:         decimal.Zero,
		perProcessor: make(map[string]*processorCounters),
	}
}

// RecordAttempt records one processor invocation's outcome.
func (s *Service) RecordAttempt(result processor.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pc := s.perProcessor[result.ProcessorName]
	if pc == nil {
		pc = &processorCounters{volume: decimal.Zero, fees: decimal.Zero}
		s.perProcessor[result.ProcessorName] = pc
	}

	pc.count++
	pc.latencySumMS += result.LatencyMS

	switch result.Status {
	case processor.Success:
		pc.success++
		pc.volume = pc.volume.Add(result.Amount)
		pc.fees = pc.fees.Add(result.Fee)
	case processor.HardDecline:
		pc.hardDecline++
	case processor.SoftDecline:
		pc.softDecline++
	case processor.Timeout:
		pc.timeout++
	case processor.RateLimited:
		pc.rateLimited++
	}
}

// RecordFinal records the engine's terminal decision for one transaction.
func (s *Service) RecordFinal(approved bool, amount, fee decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalTransactions++
	if approved {
		s.approved++
		s.volume = s.volume.Add(amount)
		s.fees = s.fees.Add(fee)
	} else {
		s.declined++
	}
}

// ProcessorStats is a per-processor snapshot row.
type ProcessorStats struct {
	Count           int64
	Volume          decimal.Decimal
	Fees            decimal.Decimal
	Success         int64
	HardDecline     int64
	SoftDecline     int64
	Timeout         int64
	RateLimited     int64
	AvgLatencyMS    float64
}

// Snapshot is the immutable value returned by Service.Snapshot.
type Snapshot struct {
	TotalTransactions   int64
	Approved            int64
	Declined            int64
	OverallApprovalRate float64
	Volume              decimal.Decimal
	Fees                decimal.Decimal
	UptimeSeconds       float64
	PerProcessor        map[string]ProcessorStats
}

// Snapshot returns a race-free copy of all counters.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		TotalTransactions: s.totalTransactions,
		Approved:          s.approved,
		Declined:          s.declined,
		Volume:            s.volume,
		Fees:              s.fees,
		UptimeSeconds:     time.Since(s.startedAt).Seconds(),
		PerProcessor:      make(map[string]ProcessorStats, len(s.perProcessor)),
	}
	if s.totalTransactions > 0 {
		snap.OverallApprovalRate = float64(s.approved) / float64(s.totalTransactions)
	}
	for name, pc := range s.perProcessor {
		avg := 0.0
		if pc.count > 0 {
			avg = pc.latencySumMS / float64(pc.count)
		}
		snap.PerProcessor[name] = ProcessorStats{
			Count:        pc.count,
			Volume:       pc.volume,
			Fees:         pc.fees,
			Success:      pc.success,
			HardDecline:  pc.hardDecline,
			SoftDecline:  pc.softDecline,
			Timeout:      pc.timeout,
			RateLimited:  pc.rateLimited,
			AvgLatencyMS: avg,
		}
	}
	return snap
}
