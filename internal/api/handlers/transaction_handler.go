package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/engine"
	apierrors "github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/errors"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/logger"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/processor"
)

// maxMetadataBytes bounds the serialized size of TransactionRequest.Metadata.
const maxMetadataBytes = 1024

// TransactionHandler serves the single transaction-submission endpoint the
// engine exists to back.
type TransactionHandler struct {
	engine *engine.FallbackEngine
	logger *logger.Logger
}

// NewTransactionHandler constructs the handler over a live engine.
func NewTransactionHandler(fallbackEngine *engine.FallbackEngine, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{engine: fallbackEngine, logger: log}
}

// RegisterRoutes wires this handler's routes onto router.
func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/transactions", h.ProcessTransaction)
}

// transactionRequestDTO mirrors processor.TransactionRequest for JSON
// binding; Amount is bound as a string so a malformed numeric literal
// becomes a 422 rather than silently truncating precision.
type transactionRequestDTO struct {
	TransactionID string            `json:"transaction_id" binding:"required,max=64,alphanumdash"`
	Amount        string            `json:"amount" binding:"required"`
	Currency      string            `json:"currency" binding:"required,oneof=BRL USD MXN"`
	MerchantID    string            `json:"merchant_id" binding:"required,max=64,alphanumdash"`
	CardLastFour  string            `json:"card_last_four" binding:"required,len=4,numeric"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// ProcessTransaction handles POST /transactions.
//
// @Summary      Submit a transaction for fallback processing
// @Description  Runs the cost/currency-ordered processor fallback chain for a single transaction, honoring idempotency by transaction_id.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request  body      transactionRequestDTO  true  "Transaction to process"
// @Success      200      {object}  processor.Response
// @Failure      422      {object}  map[string]interface{}
// @Router       /api/v1/transactions [post]
func (h *TransactionHandler) ProcessTransaction(c *gin.Context) {
	var dto transactionRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.Error(apierrors.NewValidationErrorWithDetails("invalid transaction request", err.Error()))
		c.Abort()
		return
	}

	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		c.Error(apierrors.NewValidationError("amount must be a decimal string"))
		c.Abort()
		return
	}
	if amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThan(decimal.NewFromInt(1_000_000)) {
		c.Error(apierrors.NewValidationError("amount must be > 0 and <= 1000000"))
		c.Abort()
		return
	}
	if amount.Exponent() < -2 {
		c.Error(apierrors.NewValidationError("amount must have at most 2 fractional digits"))
		c.Abort()
		return
	}

	if dto.Metadata != nil {
		encoded, _ := json.Marshal(dto.Metadata)
		if len(encoded) > maxMetadataBytes {
			c.Error(apierrors.NewValidationError("metadata exceeds 1024 bytes when serialized"))
			c.Abort()
			return
		}
	}

	req := processor.TransactionRequest{
		TransactionID: dto.TransactionID,
		Amount:        amount,
		Currency:      processor.Currency(dto.Currency),
		MerchantID:    dto.MerchantID,
		CardLastFour:  dto.CardLastFour,
		Metadata:      dto.Metadata,
	}

	resp := h.engine.Process(c.Request.Context(), req)
	c.JSON(http.StatusOK, resp)
}
