package middleware

import (
	"rentora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with the standard
// error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// Actor is the authenticated request context resolved from the session:
// who is acting and with which role. Ownership checks compare Actor.UserID
// against the record's owner.
type Actor struct {
	UserID    string
	Name      string
	Email     string
	Role      string
	AvatarURL string
}

// GetActor extracts the typed actor from the session user map. Returns nil if
// the session has no user or the shape is unexpected.
func GetActor(c *fiber.Ctx) *Actor {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return nil
	}
	a := &Actor{}
	a.UserID, _ = m["user_id"].(string)
	a.Name, _ = m["name"].(string)
	a.Email, _ = m["email"].(string)
	a.Role, _ = m["role"].(string)
	if s, ok := m["avatar_url"].(string); ok {
		a.AvatarURL = s
	}
	if a.UserID == "" {
		return nil
	}
	return a
}
