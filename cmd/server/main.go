// Command server runs the fallback engine's HTTP API.
//
// @title                      Flexipay Fallback Engine API
// @version                    1.0
// @description                Cost-and-currency-aware payment processor fallback engine with circuit breaking, retry/backoff and idempotent transaction submission.
// @BasePath                   /
// @schemes                    http
package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	_ "github.com/santiagosierra-yuno/flexipay-fallback-engine/docs"
	internalfx "github.com/santiagosierra-yuno/flexipay-fallback-engine/internal/fx"
)

func main() {
	// .env is optional; in production config comes from the environment
	// directly, so a missing file is not an error.
	_ = godotenv.Load()

	app := fx.New(
		internalfx.CoreModules,
		internalfx.ApplicationModules,
		internalfx.ServerModule,
	)

	app.Run()
}
