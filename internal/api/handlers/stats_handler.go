package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/stats"
)

// StatsHandler serves GET /stats.
type StatsHandler struct {
	stats *stats.Service
}

// NewStatsHandler constructs the handler over the shared stats service.
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

// RegisterRoutes wires this handler's routes onto router.
func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stats", h.Get)
}

// Get handles GET /stats.
//
// @Summary      Fetch aggregate and per-processor transaction statistics
// @Tags         stats
// @Produce      json
// @Success      200  {object}  stats.Snapshot
// @Router       /api/v1/stats [get]
func (h *StatsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Snapshot())
}
