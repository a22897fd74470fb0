package gatewayproxy

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brightpath/platform/pkg/httpkit"
)

// Config assembles everything Mount needs to wire the full C5 pipeline onto app.
type Config struct {
	CORS      CORSConfig
	Auth      AuthConfig
	RateLimit *RateLimiter
	Routes    *RouteTable
}

// Mount attaches the full pipeline (spec §4.5): CORS preflight termination, correlation,
// auth pre-validation, rate limiting, then the catch-all proxy, in that order.
func Mount(app *fiber.App, cfg Config) {
	app.Use(WithCORS(cfg.CORS))
	app.Use(httpkit.WithCorrelationID())
	app.Use(PreValidateJWT(cfg.Auth))

	if cfg.RateLimit != nil {
		app.Use(cfg.RateLimit.Middleware())
	}

	app.Use(NewProxyHandler(cfg.Routes))
}
