package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/breaker"
	apierrors "github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/errors"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/processor"
)

// ProcessorHandler serves the processor observability/admin surface:
// status snapshots, breaker reset, and failure injection.
type ProcessorHandler struct {
	registry   *breaker.Registry
	processors []processor.Port
}

// NewProcessorHandler constructs the handler over the shared breaker
// registry and the configured processor set.
func NewProcessorHandler(registry *breaker.Registry, processors []processor.Port) *ProcessorHandler {
	return &ProcessorHandler{registry: registry, processors: processors}
}

// RegisterRoutes wires this handler's routes onto router.
func (h *ProcessorHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/processors/status", h.Status)
	router.POST("/processors/:name/reset", h.Reset)
	router.POST("/processors/:name/inject-failures", h.InjectFailures)
}

type processorStatusDTO struct {
	Name                     string   `json:"name"`
	FeeRate                  string   `json:"fee_rate"`
	State                    string   `json:"state"`
	SuccessRate              *float64 `json:"success_rate"`
	TotalCalls               int      `json:"total_calls"`
	SuccessfulCalls          int      `json:"successful_calls"`
	FailedCalls              int      `json:"failed_calls"`
	LastFailureAt            *string  `json:"last_failure_at"`
	CooldownRemainingSeconds *float64 `json:"cooldown_remaining_seconds,omitempty"`
}

// Status handles GET /processors/status.
//
// @Summary      List circuit-breaker status for every configured processor
// @Tags         processors
// @Produce      json
// @Success      200  {array}  processorStatusDTO
// @Router       /api/v1/processors/status [get]
func (h *ProcessorHandler) Status(c *gin.Context) {
	out := make([]processorStatusDTO, 0, len(h.processors))
	for _, p := range h.processors {
		snap := h.registry.Get(p.Name()).StatusSnapshot()
		out = append(out, processorStatusDTO{
			Name:                     p.Name(),
			FeeRate:                  p.FeeRate().String(),
			State:                    snap.State,
			SuccessRate:              snap.SuccessRate,
			TotalCalls:               snap.TotalCalls,
			SuccessfulCalls:          snap.SuccessfulCalls,
			FailedCalls:              snap.FailedCalls,
			LastFailureAt:            snap.LastFailureAt,
			CooldownRemainingSeconds: snap.CooldownRemainingSeconds,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Reset handles POST /processors/:name/reset.
//
// @Summary      Reset a processor's circuit breaker to CLOSED
// @Tags         processors
// @Produce      json
// @Param        name  path      string  true  "Processor name"
// @Success      200   {object}  breaker.Snapshot
// @Failure      404   {object}  map[string]interface{}
// @Router       /api/v1/processors/{name}/reset [post]
func (h *ProcessorHandler) Reset(c *gin.Context) {
	name := c.Param("name")
	cb, ok := h.registry.Lookup(name)
	if !ok {
		c.Error(apierrors.NewNotFoundError("processor " + name))
		c.Abort()
		return
	}
	cb.Reset()
	c.JSON(http.StatusOK, cb.StatusSnapshot())
}

// InjectFailures handles POST /processors/:name/inject-failures?count=N.
//
// @Summary      Inject synthetic failures into a processor's breaker window
// @Tags         processors
// @Produce      json
// @Param        name   path      string  true  "Processor name"
// @Param        count  query     int     true  "Number of failures to inject (1-200)"
// @Success      200    {object}  breaker.Snapshot
// @Failure      404    {object}  map[string]interface{}
// @Failure      422    {object}  map[string]interface{}
// @Router       /api/v1/processors/{name}/inject-failures [post]
func (h *ProcessorHandler) InjectFailures(c *gin.Context) {
	name := c.Param("name")
	cb, ok := h.registry.Lookup(name)
	if !ok {
		c.Error(apierrors.NewNotFoundError("processor " + name))
		c.Abort()
		return
	}

	count, err := strconv.Atoi(c.Query("count"))
	if err != nil || count < 1 || count > 200 {
		c.Error(apierrors.NewValidationError("count must be an integer in [1, 200]"))
		c.Abort()
		return
	}

	cb.InjectFailures(count)
	c.JSON(http.StatusOK, cb.StatusSnapshot())
}
