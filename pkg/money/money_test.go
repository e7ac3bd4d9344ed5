package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFee_RoundsBankerStyle(t *testing.T) {
	// 100.00 * 0.025 = 2.5 exactly: no rounding ambiguity.
	fee := Fee(decimal.NewFromFloat(100.00), decimal.NewFromFloat(0.025))
	assert.True(t, fee.Equal(decimal.NewFromFloat(2.50)), "got %s", fee)
}

func TestFee_BankersRoundingHalfToEven(t *testing.T) {
	// 0.125 rounds to 0.12 under round-half-to-even (2 preceding is even).
	amount := decimal.NewFromFloat(12.5)
	rate := decimal.NewFromFloat(0.01)
	fee := Fee(amount, rate)
	assert.True(t, fee.Equal(decimal.NewFromFloat(0.12)), "got %s", fee)
}

func TestFee_ZeroAmount(t *testing.T) {
	fee := Fee(decimal.Zero, decimal.NewFromFloat(0.032))
	assert.True(t, fee.Equal(decimal.Zero))
}

func TestFromFloat_RoundsToTwoDigits(t *testing.T) {
	got := FromFloat(19.999)
	assert.True(t, got.Equal(decimal.NewFromFloat(20.00)), "got %s", got)
}

func TestAdd2(t *testing.T) {
	got := Add2(decimal.NewFromFloat(10.005), decimal.NewFromFloat(0.005))
	assert.True(t, got.Equal(decimal.NewFromFloat(10.01)), "got %s", got)
}
