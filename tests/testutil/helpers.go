package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/processor"
)

// TestTransactionRequest builds a valid transaction request with sane
// defaults, letting a test override only the fields it cares about.
func TestTransactionRequest(overrides ...func(*processor.TransactionRequest)) processor.TransactionRequest {
	req := processor.TransactionRequest{
		TransactionID: "txn-" + uuid.New().String()[:8],
		Amount:        decimal.NewFromFloat(100.00),
		Currency:      processor.USD,
		MerchantID:    "merchant-test",
		CardLastFour:  "4242",
		Metadata:      nil,
	}

	for _, override := range overrides {
		override(&req)
	}

	return req
}

// TestResult builds a successful processor result with sane defaults.
func TestResult(processorName string, overrides ...func(*processor.Result)) processor.Result {
	result := processor.Result{
		ProcessorName: processorName,
		Status:        processor.Success,
		Amount:        decimal.NewFromFloat(100.00),
		FeeRate:       decimal.NewFromFloat(0.025),
		Fee:           decimal.NewFromFloat(2.50),
		LatencyMS:     50,
	}

	for _, override := range overrides {
		override(&result)
	}

	return result
}

// Float64Ptr returns a pointer to a float64 value
func Float64Ptr(v float64) *float64 {
	return &v
}

// IntPtr returns a pointer to an int value
func IntPtr(v int) *int {
	return &v
}

// StringPtr returns a pointer to a string value
func StringPtr(v string) *string {
	return &v
}

// TimePtr returns a pointer to a time value
func TimePtr(v time.Time) *time.Time {
	return &v
}
