package properties

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentora-backend/internal/domain"
	"rentora-backend/internal/listing"
	"rentora-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreatePropertyInput struct {
	OwnerID      uuid.UUID
	Title        string
	Description  string
	PropertyType string
	City         string
	Address      string
	Price        float64
	Bedrooms     int
	Bathrooms    int
	Area         *float64
	Latitude     *float64
	Longitude    *float64
	Amenities    []string
	ImageURLs    []string
	CoverIndex   int
}

func validateNumericBounds(price float64, bedrooms, bathrooms int, area *float64) error {
	if price < 0 {
		return ErrNegativePrice
	}
	if bedrooms < 0 || bathrooms < 0 {
		return ErrNegativeRooms
	}
	if area != nil && *area <= 0 {
		return ErrInvalidArea
	}
	return nil
}

// Create inserts a new draft property with its images in one transaction.
func (s *Service) Create(ctx context.Context, in CreatePropertyInput) (*domain.Property, error) {
	if !constants.IsValidPropertyType(in.PropertyType) {
		return nil, ErrInvalidType
	}
	if err := validateNumericBounds(in.Price, in.Bedrooms, in.Bathrooms, in.Area); err != nil {
		return nil, err
	}

	property := &domain.Property{
		OwnerID:      in.OwnerID,
		Title:        in.Title,
		Description:  in.Description,
		PropertyType: in.PropertyType,
		City:         in.City,
		Address:      in.Address,
		Price:        in.Price,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		Area:         in.Area,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Amenities:    in.Amenities,
		Status:       constants.StatusDraft,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(property).Error; err != nil {
			return err
		}
		return insertImages(tx, property.ID, in.ImageURLs, in.CoverIndex)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, property.ID)
}

func insertImages(tx *gorm.DB, propertyID uuid.UUID, urls []string, coverIndex int) error {
	for i, url := range urls {
		img := domain.PropertyImage{
			PropertyID:   propertyID,
			ImageURL:     url,
			IsCover:      i == coverIndex,
			DisplayOrder: i,
		}
		if err := tx.Create(&img).Error; err != nil {
			return err
		}
	}
	return nil
}

// Get loads one property with its images ordered for rendering.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	var property domain.Property
	err := s.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Where("id = ?", id).First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &property, nil
}

// getOwned loads a property and checks ownership.
func (s *Service) getOwned(ctx context.Context, id, ownerID uuid.UUID) (*domain.Property, error) {
	property, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return property, nil
}

type UpdatePropertyInput struct {
	Title        *string
	Description  *string
	PropertyType *string
	City         *string
	Address      *string
	Price        *float64
	Bedrooms     *int
	Bathrooms    *int
	Area         *float64
	Latitude     *float64
	Longitude    *float64
	Amenities    []string
	// ReplaceImages nil leaves the image set untouched; non-nil replaces it
	// wholesale (delete-all then re-insert, one transaction).
	ReplaceImages []string
	CoverIndex    int
}

// Update edits an owned property. Status is never changed here; publication
// goes through SetStatus. A later edit may make a published listing
// incomplete without unpublishing it.
func (s *Service) Update(ctx context.Context, id, ownerID uuid.UUID, in UpdatePropertyInput) (*domain.Property, error) {
	property, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.PropertyType != nil {
		if !constants.IsValidPropertyType(*in.PropertyType) {
			return nil, ErrInvalidType
		}
		updates["property_type"] = *in.PropertyType
	}
	if in.City != nil {
		updates["city"] = *in.City
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, ErrNegativePrice
		}
		updates["price"] = *in.Price
	}
	if in.Bedrooms != nil {
		if *in.Bedrooms < 0 {
			return nil, ErrNegativeRooms
		}
		updates["bedrooms"] = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		if *in.Bathrooms < 0 {
			return nil, ErrNegativeRooms
		}
		updates["bathrooms"] = *in.Bathrooms
	}
	if in.Area != nil {
		if *in.Area <= 0 {
			return nil, ErrInvalidArea
		}
		updates["area"] = *in.Area
	}
	if in.Latitude != nil {
		updates["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		updates["longitude"] = *in.Longitude
	}
	if in.Amenities != nil {
		updates["amenities"] = domain.Amenities(in.Amenities)
	}

	if len(updates) == 0 && in.ReplaceImages == nil {
		return nil, ErrNoChanges
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(property).Updates(updates).Error; err != nil {
				return err
			}
		}
		if in.ReplaceImages != nil {
			if err := tx.Where("property_id = ?", id).Delete(&domain.PropertyImage{}).Error; err != nil {
				return err
			}
			return insertImages(tx, id, in.ReplaceImages, in.CoverIndex)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an owned property; images follow via the FK cascade (and an
// explicit delete for DBs without enforced constraints).
func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if _, err := s.getOwned(ctx, id, ownerID); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&domain.PropertyImage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Property{}).Error
	})
}

// HostProperties lists everything the host owns, newest edits first.
func (s *Service) HostProperties(ctx context.Context, ownerID uuid.UUID) ([]domain.Property, error) {
	var properties []domain.Property
	err := s.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// PublishedProperty decorates a property with its current promotion state.
type PublishedProperty struct {
	domain.Property
	IsPromoted bool `json:"is_promoted"`
}

// Published lists published properties newest first, actively promoted ones
// moved to the front (stable within each group).
func (s *Service) Published(ctx context.Context) ([]PublishedProperty, error) {
	var properties []domain.Property
	err := s.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Where("status = ?", constants.StatusPublished).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}

	promoted, err := s.activePromotionIDs(ctx)
	if err != nil {
		return nil, err
	}

	front := make([]PublishedProperty, 0, len(properties))
	rest := make([]PublishedProperty, 0, len(properties))
	for _, p := range properties {
		pp := PublishedProperty{Property: p, IsPromoted: promoted[p.ID]}
		if pp.IsPromoted {
			front = append(front, pp)
		} else {
			rest = append(rest, pp)
		}
	}
	return append(front, rest...), nil
}

func (s *Service) activePromotionIDs(ctx context.Context) (map[uuid.UUID]bool, error) {
	now := time.Now()
	var rows []domain.Promotion
	err := s.DB.WithContext(ctx).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make(map[uuid.UUID]bool, len(rows))
	for _, r := range rows {
		ids[r.PropertyID] = true
	}
	return ids, nil
}

type SearchFilters struct {
	City         string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	Bedrooms     *int
}

// Search filters published properties. City matches a case-insensitive
// substring; bedrooms is a lower bound.
func (s *Service) Search(ctx context.Context, filters SearchFilters) ([]domain.Property, error) {
	q := s.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Where("status = ?", constants.StatusPublished)

	if filters.City != "" {
		q = q.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(filters.City)+"%")
	}
	if filters.PropertyType != "" && filters.PropertyType != "all" {
		if !constants.IsValidPropertyType(filters.PropertyType) {
			return nil, ErrInvalidType
		}
		q = q.Where("property_type = ?", filters.PropertyType)
	}
	if filters.MinPrice != nil {
		q = q.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		q = q.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.Bedrooms != nil {
		q = q.Where("bedrooms >= ?", *filters.Bedrooms)
	}

	var properties []domain.Property
	if err := q.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// Completeness computes the completeness result for a stored property.
func (s *Service) Completeness(ctx context.Context, id, ownerID uuid.UUID) (*listing.CompletenessResult, error) {
	property, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	result := listing.Completeness(listing.SnapshotOf(property))
	return &result, nil
}

// ValidateForPublish re-validates required fields against the authoritative
// stored record. The client's completeness display is advisory only; this is
// the gate.
func (s *Service) ValidateForPublish(ctx context.Context, id uuid.UUID) (listing.PublishValidation, error) {
	property, err := s.Get(ctx, id)
	if err != nil {
		return listing.PublishValidation{}, err
	}
	return listing.ValidateForPublish(listing.SnapshotOf(property)), nil
}

// SetStatus applies the status transition guard and writes through. Publishing
// from any non-published status requires the publish gate to pass at the
// moment of transition; all other transitions are unguarded. Archived is not
// terminal: restore to draft is allowed.
func (s *Service) SetStatus(ctx context.Context, id, ownerID uuid.UUID, target string) (*domain.Property, error) {
	if !constants.IsValidStatus(target) {
		return nil, ErrInvalidStatus
	}
	property, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if property.Status == target {
		return property, nil
	}

	if target == constants.StatusPublished {
		validation := listing.ValidateForPublish(listing.SnapshotOf(property))
		if !validation.CanPublish {
			return nil, &PublishBlockedError{MissingFields: validation.MissingFields}
		}
	}

	if err := s.DB.WithContext(ctx).Model(property).Update("status", target).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// ToggleStatus flips published -> draft unconditionally; from any other
// status it attempts to publish, applying the gate.
func (s *Service) ToggleStatus(ctx context.Context, id, ownerID uuid.UUID) (*domain.Property, error) {
	property, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	target := constants.StatusPublished
	if property.Status == constants.StatusPublished {
		target = constants.StatusDraft
	}
	return s.SetStatus(ctx, id, ownerID, target)
}

// TrackView appends an immutable view event; the viewer is optional.
func (s *Service) TrackView(ctx context.Context, propertyID uuid.UUID, userID *uuid.UUID) error {
	view := domain.PropertyView{
		PropertyID: propertyID,
		UserID:     userID,
	}
	return s.DB.WithContext(ctx).Create(&view).Error
}

// NeedsAttention returns up to 3 of the host's properties that warrant
// attention, in the host's list order.
func (s *Service) NeedsAttention(ctx context.Context, ownerID uuid.UUID) ([]listing.AttentionItem, error) {
	properties, err := s.HostProperties(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return listing.SelectNeedsAttention(properties), nil
}
