package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/domain"
)

const actorKey = "actor"

// RequireAuth resolves the caller's token into a domain.Actor exactly once
// and stores it in the request locals; handlers and services read the actor
// from there and never re-derive the role.
func RequireAuth(auth ports.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-Auth-Token")
		if token == "" {
			header := c.Get("Authorization")
			const prefix = "Bearer "
			if len(header) > len(prefix) && header[:len(prefix)] == prefix {
				token = header[len(prefix):]
			}
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		actor, err := auth.ParseToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// ActorFrom returns the actor resolved by RequireAuth.
func ActorFrom(c *fiber.Ctx) domain.Actor {
	if actor, ok := c.Locals(actorKey).(domain.Actor); ok {
		return actor
	}
	return domain.Actor{}
}
