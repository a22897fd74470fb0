package httpkit

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderCorrelationID is the header carrying the cross-service correlation id.
const HeaderCorrelationID = "X-Correlation-ID"

// WithCorrelationID adopts the inbound X-Correlation-ID if present, else mints one, and attaches
// it to the request so downstream handlers and the proxy leg can read and propagate it (spec
// §4.5 "Correlation": adopt if present, else generate; attach to context; propagate on proxied
// headers).
func WithCorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cid := c.Get(HeaderCorrelationID)
		if cid == "" {
			cid = uuid.NewString()
		}

		c.Set(HeaderCorrelationID, cid)
		c.Request().Header.Set(HeaderCorrelationID, cid)
		c.Locals(HeaderCorrelationID, cid)

		return c.Next()
	}
}

// CorrelationID reads the correlation id attached to c by WithCorrelationID.
func CorrelationID(c *fiber.Ctx) string {
	if v, ok := c.Locals(HeaderCorrelationID).(string); ok {
		return v
	}

	return ""
}
