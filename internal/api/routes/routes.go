// Package routes groups route registration by resource, in the style the
// rest of this corpus uses: one RegisterXxxRoutes function per resource,
// called from the fx-provided gin engine.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/internal/api/handlers"
)

// RegisterTransactionRoutes registers the transaction submission endpoint.
func RegisterTransactionRoutes(router *gin.RouterGroup, handler *handlers.TransactionHandler) {
	handler.RegisterRoutes(router)
}

// RegisterProcessorRoutes registers the processor status/admin endpoints.
func RegisterProcessorRoutes(router *gin.RouterGroup, handler *handlers.ProcessorHandler) {
	handler.RegisterRoutes(router)
}

// RegisterStatsRoutes registers the aggregate stats endpoint.
func RegisterStatsRoutes(router *gin.RouterGroup, handler *handlers.StatsHandler) {
	handler.RegisterRoutes(router)
}
