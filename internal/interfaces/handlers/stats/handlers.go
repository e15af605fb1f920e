package stats

import (
	statsvc "rentora-backend/internal/application/stats"
	"rentora-backend/internal/middleware"
	"rentora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *statsvc.Service
}

// Host GET /api/v1/stats/host — portfolio totals for the session host.
func (h *Handlers) Host(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	ownerID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	stats, err := h.Service.HostStats(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Host stats", stats, nil)
}

// Admin GET /api/v1/stats/admin — platform-wide totals. Admin only (router).
func (h *Handlers) Admin(c *fiber.Ctx) error {
	stats, err := h.Service.AdminStats(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Admin stats", stats, nil)
}

// ViewsOverTime GET /api/v1/stats/admin/views-over-time?days=30
func (h *Handlers) ViewsOverTime(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	points, err := h.Service.ViewsOverTime(c.Context(), days)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Views over time", points, nil)
}

// ByCity GET /api/v1/stats/admin/by-city — top cities by property count.
func (h *Handlers) ByCity(c *fiber.Ctx) error {
	counts, err := h.Service.PropertiesByCity(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Properties by city", counts, nil)
}
