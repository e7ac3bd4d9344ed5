package stats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/processor"
)

func TestSnapshot_EmptyService(t *testing.T) {
	s := New()
	snap := s.Snapshot()

	assert.Equal(t, int64(0), snap.TotalTransactions)
	assert.Equal(t, 0.0, snap.OverallApprovalRate)
	assert.Empty(t, snap.PerProcessor)
}

func TestRecordFinal_TracksApprovalRate(t *testing.T) {
	s := New()
	s.RecordFinal(true, decimal.NewFromFloat(100), decimal.NewFromFloat(2.5))
	s.RecordFinal(false, decimal.NewFromFloat(50), decimal.Zero)
	s.RecordFinal(true, decimal.NewFromFloat(200), decimal.NewFromFloat(5.8))

	snap := s.Snapshot()
	assert.Equal(t, int64(3), snap.TotalTransactions)
	assert.Equal(t, int64(2), snap.Approved)
	assert.Equal(t, int64(1), snap.Declined)
	assert.InDelta(t, 2.0/3.0, snap.OverallApprovalRate, 0.0001)
	assert.True(t, snap.Volume.Equal(decimal.NewFromFloat(300)))
	assert.True(t, snap.Fees.Equal(decimal.NewFromFloat(8.3)))
}

func TestRecordAttempt_PerProcessorCounters(t *testing.T) {
	s := New()
	s.RecordAttempt(processor.Result{
		ProcessorName: "VortexPay",
		Status:        processor.Success,
		Amount:        decimal.NewFromFloat(100),
		Fee:           decimal.NewFromFloat(2.5),
		LatencyMS:     40,
	})
	s.RecordAttempt(processor.Result{
		ProcessorName: "VortexPay",
		Status:        processor.SoftDecline,
		LatencyMS:     60,
	})
	s.RecordAttempt(processor.Result{
		ProcessorName: "SwiftPay",
		Status:        processor.RateLimited,
		LatencyMS:     30,
	})

	snap := s.Snapshot()
	vortex := snap.PerProcessor["VortexPay"]
	assert.Equal(t, int64(2), vortex.Count)
	assert.Equal(t, int64(1), vortex.Success)
	assert.Equal(t, int64(1), vortex.SoftDecline)
	assert.InDelta(t, 50.0, vortex.AvgLatencyMS, 0.0001)

	swift := snap.PerProcessor["SwiftPay"]
	assert.Equal(t, int64(1), swift.Count)
	assert.Equal(t, int64(1), swift.RateLimited)
}

func TestSnapshot_UptimeIncreasesMonotonically(t *testing.T) {
	s := New()
	first := s.Snapshot().UptimeSeconds
	second := s.Snapshot().UptimeSeconds
	assert.GreaterOrEqual(t, second, first)
}
