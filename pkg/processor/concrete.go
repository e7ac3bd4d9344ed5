package processor

import "github.com/shopspring/decimal"

// NewVortexPay builds the VortexPay mock processor: fee_rate 0.025, the
// cheapest of the three, favoured first in non-BRL ordering.
func NewVortexPay() *Mockable {
	return NewMockable(
		"VortexPay",
		decimal.NewFromFloat(0.025),
		[2]float64{20, 180},
		[]outcomeEntry{
			{CumulativeProb: 0.68, Status: Success},
			{CumulativeProb: 0.80, Status: SoftDecline},
			{CumulativeProb: 0.87, Status: HardDecline},
			{CumulativeProb: 0.95, Status: RateLimited},
			{CumulativeProb: 1.00, Status: Timeout},
		},
		[]string{"insufficient_funds", "limit_exceeded", "processor_unavailable"},
		[]string{"stolen_card", "do_not_honor", "invalid_account", "fraud_detected", "invalid_cvv", "card_expired"},
		map[string]cardOverride{},
	)
}

// NewSwiftPay builds the SwiftPay mock processor: fee_rate 0.029, a
// mid-cost fallback with a slightly more conservative failure profile.
func NewSwiftPay() *Mockable {
	return NewMockable(
		"SwiftPay",
		decimal.NewFromFloat(0.029),
		[2]float64{30, 220},
		[]outcomeEntry{
			{CumulativeProb: 0.72, Status: Success},
			{CumulativeProb: 0.85, Status: SoftDecline},
			{CumulativeProb: 0.91, Status: HardDecline},
			{CumulativeProb: 0.97, Status: RateLimited},
			{CumulativeProb: 1.00, Status: Timeout},
		},
		[]string{"insufficient_funds", "daily_limit_reached"},
		[]string{"stolen_card", "do_not_honor", "fraud_detected"},
		map[string]cardOverride{},
	)
}

// NewPixFlow builds the PixFlow mock processor: fee_rate 0.032, the most
// expensive of the three but preferred first for BRL transactions.
func NewPixFlow() *Mockable {
	return NewMockable(
		"PixFlow",
		decimal.NewFromFloat(0.032),
		[2]float64{10, 120},
		[]outcomeEntry{
			{CumulativeProb: 0.80, Status: Success},
			{CumulativeProb: 0.90, Status: SoftDecline},
			{CumulativeProb: 0.94, Status: HardDecline},
			{CumulativeProb: 0.98, Status: RateLimited},
			{CumulativeProb: 1.00, Status: Timeout},
		},
		[]string{"insufficient_funds", "pix_key_unreachable"},
		[]string{"invalid_account", "fraud_detected"},
		map[string]cardOverride{},
	)
}

// WithOverride returns m configured with a deterministic forced outcome
// for the given card_last_four, for use by tests that need a scripted
// scenario rather than a random one.
func (m *Mockable) WithOverride(cardLastFour string, status Status, declineCode string) *Mockable {
	m.overrides[cardLastFour] = cardOverride{Status: status, DeclineCode: declineCode}
	return m
}
