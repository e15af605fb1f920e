package middleware

import (
	"rentora-backend/internal/pkg/constants"
	"rentora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a handler that checks the session user's role against
// the renter < host < admin lattice: the request proceeds when the user's
// role grants at least the required capabilities.
func RequireRole(required string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !constants.IsValidRole(required) {
			return response.Error(c, "Role configuration error", 500, nil)
		}
		if !constants.HasAtLeast(actor.Role, required) {
			return response.Error(c, "User is Forbidden from performing this action", 403, nil)
		}
		return c.Next()
	}
}
