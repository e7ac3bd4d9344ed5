package fx

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/internal/config"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/breaker"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/engine"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/idempotency"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/logger"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/processor"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/stats"
)

// EngineModule wires the breaker registry, stats accumulator, idempotency
// cache, configured processor set, and the fallback engine itself.
var EngineModule = fx.Module("engine",
	fx.Provide(
		NewBreakerConfig,
		NewEngineConfig,
		breaker.NewRegistry,
		stats.New,
		NewIdempotencyCache,
		NewProcessors,
		engine.New,
	),
	fx.Invoke(registerEngineLifecycle),
)

// NewBreakerConfig adapts the process config into the breaker package's
// config shape.
func NewBreakerConfig(cfg *config.Config) breaker.Config {
	return breaker.Config{
		WindowSize:      cfg.Breaker.RollingWindowSize,
		WindowSeconds:   time.Duration(cfg.Breaker.RollingWindowSeconds * float64(time.Second)),
		TripThreshold:   cfg.Breaker.TripThreshold,
		CooldownSeconds: time.Duration(cfg.Breaker.CooldownSeconds * float64(time.Second)),
	}
}

// NewEngineConfig adapts the process config into the engine package's
// config shape.
func NewEngineConfig(cfg *config.Config) engine.Config {
	return engine.Config{
		BackoffBaseSeconds:      cfg.Backoff.BaseSeconds,
		BackoffMaxSeconds:       cfg.Backoff.MaxSeconds,
		BackoffMaxRetries:       cfg.Backoff.MaxRetries,
		ProcessorTimeoutSeconds: cfg.Backoff.ProcessorTimeoutSeconds,
	}
}

// NewIdempotencyCache constructs the cache with the package default TTL.
func NewIdempotencyCache() *idempotency.Cache {
	return idempotency.New(idempotency.DefaultTTL)
}

// NewProcessors builds the fixed set of mock processors the engine routes
// across. Declared order here is the tie-break order the ordering rule
// falls back to.
func NewProcessors() []processor.Port {
	return []processor.Port{
		processor.NewVortexPay(),
		processor.NewSwiftPay(),
		processor.NewPixFlow(),
	}
}

// registerEngineLifecycle pre-registers a breaker for every configured
// processor at startup (so the status endpoint never needs to
// lazily construct one under a request) and logs final counters on
// shutdown.
func registerEngineLifecycle(
	lc fx.Lifecycle,
	registry *breaker.Registry,
	processors []processor.Port,
	statsService *stats.Service,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for _, p := range processors {
				registry.Get(p.Name())
			}
			log.Infow("processors registered", "count", len(processors))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			snap := statsService.Snapshot()
			log.Infow("final stats",
				"total_transactions", snap.TotalTransactions,
				"approved", snap.Approved,
				"declined", snap.Declined,
				"uptime_seconds", snap.UptimeSeconds,
			)
			return nil
		},
	})
}
