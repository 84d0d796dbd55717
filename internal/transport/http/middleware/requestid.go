package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// RequestID ensures every request carries a correlation id. When header is
// non-empty an inbound id from that header is trusted; otherwise a fresh
// uuid is issued. The id lives in the fasthttp user-value table so both
// handlers and the error handler see it.
func RequestID(header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if header != "" {
			id = c.Get(header)
		}
		if id == "" {
			id = uuid.New().String()
		}
		c.Context().SetUserValue(requestIDKey, id)
		return c.Next()
	}
}

// RequestIDFrom returns the correlation id set by RequestID, or "" when the
// middleware did not run.
func RequestIDFrom(c *fiber.Ctx) string {
	if id, ok := c.Context().UserValue(requestIDKey).(string); ok {
		return id
	}
	return ""
}
