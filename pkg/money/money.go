// Package money provides fixed-point decimal helpers for currency amounts
// and fee computation, shared by the processor port, the engine and the
// stats service.
package money

import "github.com/shopspring/decimal"

// Zero is the additive identity, exported so callers don't repeatedly spell
// decimal.NewFromInt(0).
var Zero = decimal.Zero

// FromFloat builds a two-decimal amount from a float64, e.g. a parsed JSON
// number on the HTTP boundary.
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Fee computes amount * feeRate rounded to 2 fractional digits using
// banker's rounding (round-half-to-even), matching the invariant that
// SUCCESS results carry a fee computed with banker-neutral fixed-point
// multiplication.
func Fee(amount, feeRate decimal.Decimal) decimal.Decimal {
	return amount.Mul(feeRate).RoundBank(2)
}

// Add2 sums two amounts and rounds the result to 2 digits.
func Add2(a, b decimal.Decimal) decimal.Decimal {
	return a.Add(b).Round(2)
}
