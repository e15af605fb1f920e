package uploads

import (
	uploadsvc "rentora-backend/internal/application/uploads"
	"rentora-backend/internal/middleware"
	"rentora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *uploadsvc.Service
}

type uploadRequest struct {
	FileName string `json:"file_name"`
}

// PropertyImage POST /api/v1/uploads/property-image
func (h *Handlers) PropertyImage(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil || req.FileName == "" {
		return response.Error(c, "file_name is required", 400, nil)
	}

	ticket, err := h.Service.PropertyImageUpload(c.Context(), actor.UserID, req.FileName)
	if err != nil {
		log.Error().Err(err).Str("bucket", uploadsvc.BucketPropertyImages).Msg("upload: failed to generate signed URL")
		return response.Error(c, "Failed to generate upload URL", 500, nil)
	}
	return response.Success(c, "Upload URL generated", ticket, nil)
}

// Avatar POST /api/v1/uploads/avatar
func (h *Handlers) Avatar(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil || req.FileName == "" {
		return response.Error(c, "file_name is required", 400, nil)
	}

	ticket, err := h.Service.AvatarUpload(c.Context(), actor.UserID, req.FileName)
	if err != nil {
		log.Error().Err(err).Str("bucket", uploadsvc.BucketAvatars).Msg("upload: failed to generate signed URL")
		return response.Error(c, "Failed to generate upload URL", 500, nil)
	}
	return response.Success(c, "Upload URL generated", ticket, nil)
}
