package fx

import (
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/internal/config"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ConfigModule provides application configuration.
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// LoggerModule provides structured logging.
var LoggerModule = fx.Module("logger",
	fx.Provide(
		func(cfg *config.Config) (*logger.Logger, error) {
			if cfg.Server.Environment == "development" {
				return logger.NewDevelopment()
			}
			return logger.New(cfg.Server.LogLevel)
		},
	),
	fx.Invoke(func(log *logger.Logger) {
		zap.ReplaceGlobals(log.SugaredLogger.Desugar())
	}),
)

// CoreModules combines the ambient modules every other module depends on.
var CoreModules = fx.Options(
	ConfigModule,
	LoggerModule,
)

// ApplicationModules combines the domain-specific modules.
var ApplicationModules = fx.Options(
	EngineModule,
	HandlersModule,
)
