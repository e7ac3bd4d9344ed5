package fx

import (
	"go.uber.org/fx"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/internal/api/handlers"
)

// HandlersModule wires every HTTP handler. Handlers are thin: each one
// depends only on the domain service it fronts, never on each other.
var HandlersModule = fx.Module("handlers",
	fx.Provide(
		handlers.NewTransactionHandler,
		handlers.NewProcessorHandler,
		handlers.NewStatsHandler,
		handlers.NewHealthHandler,
	),
)
