// Package processor defines the data model the fallback engine exchanges
// with downstream payment processors: the request/response shapes and the
// port every concrete processor implements.
package processor

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the closed set of currencies the engine accepts.
type Currency string

const (
	BRL Currency = "BRL"
	USD Currency = "USD"
	MXN Currency = "MXN"
)

// Status is the sum-typed outcome of a single processor attempt. Only
// SUCCESS populates Fee/FeeRate; only the decline variants populate
// DeclineCode/DeclineType. CircuitOpen is never returned by a processor —
// it is synthesised by the engine when a breaker rejects the call.
type Status string

const (
	Success      Status = "SUCCESS"
	SoftDecline  Status = "SOFT_DECLINE"
	HardDecline  Status = "HARD_DECLINE"
	RateLimited  Status = "RATE_LIMITED"
	Timeout      Status = "TIMEOUT"
	CircuitOpen  Status = "CIRCUIT_OPEN"
)

// DeclineType classifies why a decline happened, independent of Status.
type DeclineType string

const (
	DeclineSoft      DeclineType = "soft"
	DeclineHard      DeclineType = "hard"
	DeclineRateLimit DeclineType = "rate_limit"
)

// TransactionRequest is the immutable input to the engine.
type TransactionRequest struct {
	TransactionID string            `json:"transaction_id" binding:"required,min=1,max=64,alphanumdash"`
	Amount        decimal.Decimal   `json:"amount" binding:"required"`
	Currency      Currency          `json:"currency" binding:"required,oneof=BRL USD MXN"`
	MerchantID    string            `json:"merchant_id" binding:"required,min=1,max=64,alphanumdash"`
	CardLastFour  string            `json:"card_last_four" binding:"required,len=4,numeric"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Result is the per-attempt outcome produced by a processor's Charge call.
type Result struct {
	ProcessorName string
	Status        Status
	Amount        decimal.Decimal
	Fee           decimal.Decimal
	FeeRate       decimal.Decimal
	DeclineCode   string
	DeclineType   DeclineType
	LatencyMS     float64
	RawResponse   map[string]string
}

// Response is the single terminal result the engine returns for a request.
type Response struct {
	TransactionID   string          `json:"transaction_id"`
	Status          string          `json:"status"`
	ProcessorUsed   string          `json:"processor_used,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        Currency        `json:"currency"`
	Fee             decimal.Decimal `json:"fee,omitempty"`
	FeeRate         decimal.Decimal `json:"fee_rate,omitempty"`
	DeclineReason   string          `json:"decline_reason,omitempty"`
	DeclineType     string          `json:"decline_type,omitempty"`
	Attempts        int             `json:"attempts"`
	ProcessorsTried []string        `json:"processors_tried"`
	RetryLog        []string        `json:"retry_log"`
	LatencyMS       float64         `json:"latency_ms"`
	ProcessedAt     time.Time       `json:"processed_at"`
}

// Port is the capability the engine depends on. Charge must never panic
// across the call boundary in the caller's view: every failure mode is
// encoded in the returned Result's Status.
type Port interface {
	Name() string
	FeeRate() decimal.Decimal
	Charge(ctx context.Context, request TransactionRequest) Result
}
