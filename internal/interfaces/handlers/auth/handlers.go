package auth

import (
	"context"

	authsvc "rentora-backend/internal/application/auth"
	"rentora-backend/internal/middleware"
	"rentora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *authsvc.Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register POST /api/v1/auth/register — create profile with renter role, then
// log the new user in (session + cookie), same flow as Login.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Name, email and password are required", fiber.StatusBadRequest, nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return response.Error(c, "Name, email and password are required", fiber.StatusBadRequest, nil)
	}

	profile, err := h.Service.Register(c.Context(), authsvc.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch err {
		case authsvc.ErrInvalidName, authsvc.ErrInvalidEmail, authsvc.ErrWeakPassword:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case authsvc.ErrEmailTaken:
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	role, err := h.Service.EffectiveRole(c.Context(), profile.ID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	if err := h.startSession(c, profile.ID, profile.Name, profile.Email, role, profile.AvatarURL); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	return response.SuccessCreated(c, "Account created", fiber.Map{
		"user": sessionUserMap(profile.ID, profile.Name, profile.Email, role, profile.AvatarURL),
	}, nil)
}

// Login POST /api/v1/auth/login — authenticate, regenerate session, set cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}
	if req.Email == "" || req.Password == "" {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}

	profile, role, err := h.Service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case authsvc.ErrEmailPasswordRequired:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case authsvc.ErrInvalidCredentials:
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	if err := h.startSession(c, profile.ID, profile.Name, profile.Email, role, profile.AvatarURL); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	return response.Success(c, "Login successful", fiber.Map{
		"user": sessionUserMap(profile.ID, profile.Name, profile.Email, role, profile.AvatarURL),
	}, nil)
}

// Me GET /api/v1/auth/me — return the current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": actor}, nil)
}

// Logout DELETE /api/v1/auth/logout — drop the session and clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	actor := middleware.GetActor(c)

	ctx := context.Background()
	if actor != nil && sessionID != "" {
		_ = h.Rdb.SRem(ctx, userSessionsPrefix+actor.UserID, sessionID).Err()
	}
	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}

// BecomeHost POST /api/v1/auth/become-host — idempotent role upgrade. The
// session is refreshed so subsequent requests carry the new role.
func (h *Handlers) BecomeHost(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	role, err := h.Service.BecomeHost(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	var avatar *string
	if actor.AvatarURL != "" {
		avatar = &actor.AvatarURL
	}
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:    actor.UserID,
		Name:      actor.Name,
		Email:     actor.Email,
		Role:      role,
		AvatarURL: avatar,
	})

	return response.Success(c, "Host role granted", fiber.Map{"role": role}, nil)
}

func (h *Handlers) startSession(c *fiber.Ctx, id uuid.UUID, name, email, role string, avatar *string) error {
	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:    id.String(),
		Name:      name,
		Email:     email,
		Role:      role,
		AvatarURL: avatar,
	})
	if err := h.Rdb.SAdd(context.Background(), userSessionsPrefix+id.String(), sessionID).Err(); err != nil {
		return err
	}
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)
	return nil
}

func sessionUserMap(id uuid.UUID, name, email, role string, avatar *string) fiber.Map {
	return fiber.Map{
		"user_id":    id.String(),
		"name":       name,
		"email":      email,
		"role":       role,
		"avatar_url": avatar,
	}
}
