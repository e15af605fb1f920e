package properties

import (
	"errors"

	propsvc "rentora-backend/internal/application/properties"
	"rentora-backend/internal/middleware"
	"rentora-backend/internal/pkg/constants"
	"rentora-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *propsvc.Service
}

type propertyBody struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	PropertyType *string  `json:"property_type"`
	City         *string  `json:"city"`
	Address      *string  `json:"address"`
	Price        *float64 `json:"price"`
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *int     `json:"bathrooms"`
	Area         *float64 `json:"area"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
	CoverIndex   *int     `json:"cover_index"`
}

// Create POST /api/v1/properties — new draft listing.
func (h *Handlers) Create(c *fiber.Ctx) error {
	_, ownerID, errResp := requireOwner(c)
	if errResp != nil {
		return errResp(c)
	}

	var body propertyBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if body.Title == nil || body.PropertyType == nil {
		return response.Error(c, "title and property_type are required", fiber.StatusBadRequest, nil)
	}

	in := propsvc.CreatePropertyInput{
		OwnerID:      ownerID,
		Title:        *body.Title,
		PropertyType: *body.PropertyType,
		Amenities:    body.Amenities,
		ImageURLs:    body.Images,
	}
	if body.Description != nil {
		in.Description = *body.Description
	}
	if body.City != nil {
		in.City = *body.City
	}
	if body.Address != nil {
		in.Address = *body.Address
	}
	if body.Price != nil {
		in.Price = *body.Price
	}
	if body.Bedrooms != nil {
		in.Bedrooms = *body.Bedrooms
	}
	if body.Bathrooms != nil {
		in.Bathrooms = *body.Bathrooms
	}
	in.Area = body.Area
	in.Latitude = body.Latitude
	in.Longitude = body.Longitude
	if body.CoverIndex != nil {
		in.CoverIndex = *body.CoverIndex
	}

	property, err := h.Service.Create(c.Context(), in)
	if err != nil {
		return propertyError(c, err)
	}
	return response.SuccessCreated(c, "Property created", property, nil)
}

// Update PUT /api/v1/properties/:id — partial edit; images in the body
// replace the set wholesale.
func (h *Handlers) Update(c *fiber.Ctx) error {
	_, ownerID, errResp := requireOwner(c)
	if errResp != nil {
		return errResp(c)
	}
	propertyID, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}

	var body propertyBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	in := propsvc.UpdatePropertyInput{
		Title:         body.Title,
		Description:   body.Description,
		PropertyType:  body.PropertyType,
		City:          body.City,
		Address:       body.Address,
		Price:         body.Price,
		Bedrooms:      body.Bedrooms,
		Bathrooms:     body.Bathrooms,
		Area:          body.Area,
		Latitude:      body.Latitude,
		Longitude:     body.Longitude,
		Amenities:     body.Amenities,
		ReplaceImages: body.Images,
	}
	if body.CoverIndex != nil {
		in.CoverIndex = *body.CoverIndex
	}

	property, err := h.Service.Update(c.Context(), propertyID, ownerID, in)
	if err != nil {
		return propertyError(c, err)
	}
	return response.Success(c, "Property updated", property, nil)
}

// Delete DELETE /api/v1/properties/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	_, ownerID, errResp := requireOwner(c)
	if errResp != nil {
		return errResp(c)
	}
	propertyID, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), propertyID, ownerID); err != nil {
		return propertyError(c, err)
	}
	return response.Success(c, "Property deleted", nil, nil)
}

// Mine GET /api/v1/properties/mine — the host's own listings, all statuses.
func (h *Handlers) Mine(c *fiber.Ctx) error {
	_, ownerID, errResp := requireOwner(c)
	if errResp != nil {
		return errResp(c)
	}
	properties, err := h.Service.HostProperties(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Properties fetched", properties, nil)
}

// ListPublished GET /api/v1/properties — public feed, promoted first.
func (h *Handlers) ListPublished(c *fiber.Ctx) error {
	properties, err := h.Service.Published(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Properties fetched", properties, nil)
}

// Search GET /api/v1/properties/search?city=&type=&min_price=&max_price=&bedrooms=
func (h *Handlers) Search(c *fiber.Ctx) error {
	filters := propsvc.SearchFilters{
		City:         c.Query("city"),
		PropertyType: c.Query("type"),
	}
	if v := c.QueryFloat("min_price", -1); v >= 0 {
		filters.MinPrice = &v
	}
	if v := c.QueryFloat("max_price", -1); v >= 0 {
		filters.MaxPrice = &v
	}
	if v := c.QueryInt("bedrooms", -1); v >= 0 {
		filters.Bedrooms = &v
	}

	properties, err := h.Service.Search(c.Context(), filters)
	if err != nil {
		return propertyError(c, err)
	}
	return response.Success(c, "Search results", properties, nil)
}

// Get GET /api/v1/properties/:id — public detail view.
func (h *Handlers) Get(c *fiber.Ctx) error {
	propertyID, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	property, err := h.Service.Get(c.Context(), propertyID)
	if err != nil {
		return propertyError(c, err)
	}
	return response.Success(c, "Property fetched", property, nil)
}

// Publish POST /api/v1/properties/:id/publish — gated transition.
func (h *Handlers) Publish(c *fiber.Ctx) error {
	return h.setStatus(c, constants.StatusPublished, "Property published")
}

// Unpublish POST /api/v1/properties/:id/unpublish — back to draft.
func (h *Handlers) Unpublish(c *fiber.Ctx) error {
	return h.setStatus(c, constants.StatusDraft, "Property unpublished")
}

// Archive POST /api/v1/properties/:id/archive
func (h *Handlers) Archive(c *fiber.Ctx) error {
	return h.setStatus(c, constants.StatusArchived, "Property archived")
}

// Restore POST /api/v1/properties/:id/restore — archived back to draft.
func (h *Handlers) Restore(c *fiber.Ctx) error {
	return h.setStatus(c, constants.StatusDraft, "Property restored")
}

func (h *Handlers) setStatus(c *fiber.Ctx, target, message string) error {
	_, ownerID, errResp := requireOwner(c)
	if errResp != nil {
		return errResp(c)
	}
	propertyID, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	property, err := h.Service.SetStatus(c.Context(), propertyID, ownerID, target)
	if err != nil {
		return propertyError(c, err)
	}
	return response.Success(c, message, property, nil)
}

// ToggleStatus POST /api/v1/properties/:id/toggle-status — published flips to
// draft; anything else attempts to publish.
func (h *Handlers) ToggleStatus(c *fiber.Ctx) error {
	_, ownerID, errResp := requireOwner(c)
	if errResp != nil {
		return errResp(c)
	}
	propertyID, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	property, err := h.Service.ToggleStatus(c.Context(), propertyID, ownerID)
	if err != nil {
		return propertyError(c, err)
	}
	return response.Success(c, "Property status toggled", property, nil)
}

// ValidatePublish GET /api/v1/properties/:id/validate-publish — the gate
// result without changing anything.
func (h *Handlers) ValidatePublish(c *fiber.Ctx) error {
	propertyID, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	validation, err := h.Service.ValidateForPublish(c.Context(), propertyID)
	if err != nil {
		return propertyError(c, err)
	}
	return response.Success(c, "Publish validation", validation, nil)
}

// Completeness GET /api/v1/properties/:id/completeness
func (h *Handlers) Completeness(c *fiber.Ctx) error {
	_, ownerID, errResp := requireOwner(c)
	if errResp != nil {
		return errResp(c)
	}
	propertyID, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	result, err := h.Service.Completeness(c.Context(), propertyID, ownerID)
	if err != nil {
		return propertyError(c, err)
	}
	return response.Success(c, "Completeness computed", result, nil)
}

// Attention GET /api/v1/properties/attention — up to 3 listings needing work.
func (h *Handlers) Attention(c *fiber.Ctx) error {
	_, ownerID, errResp := requireOwner(c)
	if errResp != nil {
		return errResp(c)
	}
	items, err := h.Service.NeedsAttention(c.Context(), ownerID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Attention items", items, nil)
}

// TrackView POST /api/v1/properties/:id/view — append a view event; the
// viewer is taken from the session when present.
func (h *Handlers) TrackView(c *fiber.Ctx) error {
	propertyID, err := parseID(c)
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	var viewerID *uuid.UUID
	if actor := middleware.GetActor(c); actor != nil {
		if id, err := uuid.Parse(actor.UserID); err == nil {
			viewerID = &id
		}
	}
	if err := h.Service.TrackView(c.Context(), propertyID, viewerID); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "View recorded", nil, nil)
}

// --- helpers ---

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func requireOwner(c *fiber.Ctx) (*middleware.Actor, uuid.UUID, func(*fiber.Ctx) error) {
	actor := middleware.GetActor(c)
	if actor == nil {
		return nil, uuid.Nil, func(c *fiber.Ctx) error {
			return response.Unauthorized(c, "Unauthorized")
		}
	}
	ownerID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return nil, uuid.Nil, func(c *fiber.Ctx) error {
			return response.Unauthorized(c, "Unauthorized")
		}
	}
	return actor, ownerID, nil
}

func propertyError(c *fiber.Ctx, err error) error {
	var blocked *propsvc.PublishBlockedError
	if errors.As(err, &blocked) {
		return response.Error(c, blocked.Error(), fiber.StatusUnprocessableEntity, fiber.Map{
			"missingFields": blocked.MissingFields,
		})
	}
	switch {
	case errors.Is(err, propsvc.ErrNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, propsvc.ErrNotOwner):
		return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
	case errors.Is(err, propsvc.ErrInvalidType),
		errors.Is(err, propsvc.ErrInvalidStatus),
		errors.Is(err, propsvc.ErrNegativePrice),
		errors.Is(err, propsvc.ErrNegativeRooms),
		errors.Is(err, propsvc.ErrInvalidArea),
		errors.Is(err, propsvc.ErrNoChanges):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}
