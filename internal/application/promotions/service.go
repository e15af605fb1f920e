package promotions

import (
	"context"
	"errors"
	"time"

	"rentora-backend/internal/domain"
	"rentora-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidPlan      = errors.New("Invalid promotion plan")
	ErrPropertyNotFound = errors.New("Property not found")
	ErrNotOwner         = errors.New("Unauthorized property access")
)

// Plan prices in USD. The checkout handler converts to cents for Stripe.
var PlanPrices = map[string]float64{
	constants.PlanWeek:  29.99,
	constants.PlanMonth: 99.99,
}

// PlanDuration returns the boost window for a plan.
func PlanDuration(plan string) (time.Duration, error) {
	switch plan {
	case constants.PlanWeek:
		return 7 * 24 * time.Hour, nil
	case constants.PlanMonth:
		return 30 * 24 * time.Hour, nil
	default:
		return 0, ErrInvalidPlan
	}
}

type Service struct {
	DB *gorm.DB
}

// CheckOwnership verifies the property exists and belongs to ownerID; the
// checkout handler calls this before creating a payment intent.
func (s *Service) CheckOwnership(ctx context.Context, propertyID, ownerID uuid.UUID) error {
	var property domain.Property
	err := s.DB.WithContext(ctx).Where("id = ?", propertyID).First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPropertyNotFound
		}
		return err
	}
	if property.OwnerID != ownerID {
		return ErrNotOwner
	}
	return nil
}

// Activate records a paid promotion starting now. Called from the Stripe
// webhook after payment_intent.succeeded.
func (s *Service) Activate(ctx context.Context, propertyID uuid.UUID, plan string, amountPaid float64) (*domain.Promotion, error) {
	duration, err := PlanDuration(plan)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	promo := &domain.Promotion{
		PropertyID: propertyID,
		Plan:       plan,
		StartDate:  now,
		EndDate:    now.Add(duration),
		AmountPaid: amountPaid,
		IsActive:   true,
	}
	if err := s.DB.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// Active returns the promotion covering the current instant, or nil.
func (s *Service) Active(ctx context.Context, propertyID uuid.UUID) (*domain.Promotion, error) {
	now := time.Now()
	var promo domain.Promotion
	err := s.DB.WithContext(ctx).
		Where("property_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?",
			propertyID, true, now, now).
		Order("created_at DESC").
		First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// IsPromoted reports whether the property has an active promotion now.
func (s *Service) IsPromoted(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	promo, err := s.Active(ctx, propertyID)
	if err != nil {
		return false, err
	}
	return promo != nil, nil
}

// History lists all promotions for a property, newest first.
func (s *Service) History(ctx context.Context, propertyID uuid.UUID) ([]domain.Promotion, error) {
	var promos []domain.Promotion
	err := s.DB.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&promos).Error
	if err != nil {
		return nil, err
	}
	return promos, nil
}

// HostPromotions lists promotions across all of a host's properties.
func (s *Service) HostPromotions(ctx context.Context, ownerID uuid.UUID) ([]domain.Promotion, error) {
	var ids []uuid.UUID
	err := s.DB.WithContext(ctx).
		Model(&domain.Property{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Promotion{}, nil
	}
	var promos []domain.Promotion
	err = s.DB.WithContext(ctx).
		Where("property_id IN ?", ids).
		Order("created_at DESC").
		Find(&promos).Error
	if err != nil {
		return nil, err
	}
	return promos, nil
}
