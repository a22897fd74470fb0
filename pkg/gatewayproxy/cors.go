package gatewayproxy

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORSConfig is the gateway's allow-list, terminated here so the rest of the stack can assume
// same-origin (spec §4.5 "Preflight").
type CORSConfig struct {
	AllowOrigins string
	AllowMethods string
	AllowHeaders string
}

const (
	defaultAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	defaultAllowHeaders = "Accept, Content-Type, Authorization, X-Correlation-ID"
)

// WithCORS mirrors the teacher's CORS middleware (common/net/http/withCORS.go), parameterized by
// explicit config instead of reading os.Getenv directly so callers wire it through platformconfig.
func WithCORS(cfg CORSConfig) fiber.Handler {
	if cfg.AllowMethods == "" {
		cfg.AllowMethods = defaultAllowMethods
	}

	if cfg.AllowHeaders == "" {
		cfg.AllowHeaders = defaultAllowHeaders
	}

	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		AllowCredentials: true,
	})
}
