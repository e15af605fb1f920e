package favorites

import (
	favsvc "rentora-backend/internal/application/favorites"
	"rentora-backend/internal/middleware"
	"rentora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *favsvc.Service
}

// List GET /api/v1/favorites — favorited properties with images.
func (h *Handlers) List(c *fiber.Ctx) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	properties, err := h.Service.List(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Favorites fetched", properties, nil)
}

// IDs GET /api/v1/favorites/ids — just the property ids, for cheap toggles.
func (h *Handlers) IDs(c *fiber.Ctx) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	ids, err := h.Service.IDs(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Favorite ids fetched", ids, nil)
}

// Toggle POST /api/v1/favorites/:propertyID/toggle — returns the new state.
func (h *Handlers) Toggle(c *fiber.Ctx) error {
	userID, ok := actorID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	propertyID, err := uuid.Parse(c.Params("propertyID"))
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	favorited, err := h.Service.Toggle(c.Context(), userID, propertyID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Favorite toggled", fiber.Map{"favorited": favorited}, nil)
}

func actorID(c *fiber.Ctx) (uuid.UUID, bool) {
	actor := middleware.GetActor(c)
	if actor == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(actor.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
