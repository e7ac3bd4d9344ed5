package processor

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestConcreteProcessors_FeeRatesMatchDeclaredOrder(t *testing.T) {
	vortex := NewVortexPay()
	swift := NewSwiftPay()
	pix := NewPixFlow()

	assert.True(t, vortex.FeeRate().LessThan(swift.FeeRate()))
	assert.True(t, swift.FeeRate().LessThan(pix.FeeRate()))
	assert.Equal(t, "VortexPay", vortex.Name())
	assert.Equal(t, "SwiftPay", swift.Name())
	assert.Equal(t, "PixFlow", pix.Name())
}

func TestWithOverride_ForcesDeterministicOutcome(t *testing.T) {
	p := NewVortexPay().WithOverride("9999", HardDecline, "stolen_card")

	req := TransactionRequest{
		TransactionID: "txn-override",
		Amount:        decimal.NewFromFloat(50),
		Currency:      USD,
		MerchantID:    "merchant-1",
		CardLastFour:  "9999",
	}

	result := p.Charge(context.Background(), req)

	assert.Equal(t, HardDecline, result.Status)
	assert.Equal(t, "stolen_card", result.DeclineCode)
	assert.Equal(t, DeclineHard, result.DeclineType)
}

func TestWithOverride_SuccessComputesFee(t *testing.T) {
	p := NewVortexPay().WithOverride("1111", Success, "")

	req := TransactionRequest{
		TransactionID: "txn-override-2",
		Amount:        decimal.NewFromFloat(100),
		Currency:      USD,
		MerchantID:    "merchant-1",
		CardLastFour:  "1111",
	}

	result := p.Charge(context.Background(), req)

	assert.Equal(t, Success, result.Status)
	assert.True(t, result.Fee.Equal(decimal.NewFromFloat(2.50)), "got %s", result.Fee)
}

func TestCharge_UnoverriddenCardUsesOutcomeTable(t *testing.T) {
	p := NewVortexPay()
	req := TransactionRequest{
		TransactionID: "txn-random",
		Amount:        decimal.NewFromFloat(10),
		Currency:      USD,
		MerchantID:    "merchant-1",
		CardLastFour:  "4242",
	}

	result := p.Charge(context.Background(), req)
	switch result.Status {
	case Success, SoftDecline, HardDecline, RateLimited, Timeout:
		// any of these is a valid roll from the outcome table.
	default:
		t.Fatalf("unexpected status %s", result.Status)
	}
}
