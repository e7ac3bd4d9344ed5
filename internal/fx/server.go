package fx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/internal/api/handlers"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/internal/api/middleware"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/internal/api/routes"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/internal/config"
	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/logger"
)

// ServerModule provides the HTTP server.
var ServerModule = fx.Module("server",
	fx.Provide(
		middleware.NewErrorMiddleware,
		middleware.NewCORSMiddleware,
		NewRateLimiter,
		NewGinEngine,
		NewHTTPServer,
	),
	fx.Invoke(
		func() { middleware.RegisterGinValidators() },
		RegisterServerLifecycle,
	),
)

// NewRateLimiter builds the process-wide rate limiter: 100 requests per
// minute per client IP, generous enough for a load-test harness but still
// a backstop against a runaway caller.
func NewRateLimiter(log *logger.Logger) *middleware.RateLimiter {
	return middleware.CreateStandardLimiter(log)
}

// NewGinEngine assembles the engine: core middleware, health check, and
// the versioned API group.
func NewGinEngine(
	cfg *config.Config,
	log *logger.Logger,
	errorMiddleware *middleware.ErrorMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimiter *middleware.RateLimiter,
	transactionHandler *handlers.TransactionHandler,
	processorHandler *handlers.ProcessorHandler,
	statsHandler *handlers.StatsHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(corsMiddleware.Handler())
	engine.Use(rateLimiter.Limit())
	engine.Use(errorMiddleware.Handler())

	engine.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Infow("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	})

	healthHandler.RegisterRoutes(engine)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := engine.Group("/api/v1")
	{
		routes.RegisterTransactionRoutes(v1, transactionHandler)
		routes.RegisterProcessorRoutes(v1, processorHandler)
		routes.RegisterStatsRoutes(v1, statsHandler)
	}

	return engine
}

// NewHTTPServer wraps engine in an http.Server with the configured
// timeouts.
func NewHTTPServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// RegisterServerLifecycle starts the server in the background on OnStart
// and shuts it down gracefully (30s budget) on OnStop.
func RegisterServerLifecycle(lc fx.Lifecycle, server *http.Server, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting http server", "addr", server.Addr)

			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorw("http server failed", "error", err)
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping http server")

			shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			return server.Shutdown(shutdownCtx)
		},
	})
}
