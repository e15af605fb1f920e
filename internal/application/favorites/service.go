package favorites

import (
	"context"
	"errors"
	"strings"

	"rentora-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// List returns the properties the user has favorited, with images loaded.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.Property, error) {
	ids, err := s.IDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Property{}, nil
	}
	var properties []domain.Property
	err = s.DB.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Where("id IN ?", ids).
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// IDs returns the user's favorited property ids.
func (s *Service) IDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var favorites []domain.Favorite
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&favorites).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.PropertyID)
	}
	return ids, nil
}

// IsFavorite reports whether the (user, property) pair exists.
func (s *Service) IsFavorite(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	var fav domain.Favorite
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		First(&fav).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Toggle flips the favorite pair and returns the new state (true = now
// favorited). A duplicate insert racing another request is treated as
// already-favorited rather than an error.
func (s *Service) Toggle(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	favorited, err := s.IsFavorite(ctx, userID, propertyID)
	if err != nil {
		return false, err
	}
	if favorited {
		err := s.DB.WithContext(ctx).
			Where("user_id = ? AND property_id = ?", userID, propertyID).
			Delete(&domain.Favorite{}).Error
		return false, err
	}

	fav := domain.Favorite{UserID: userID, PropertyID: propertyID}
	if err := s.DB.WithContext(ctx).Create(&fav).Error; err != nil {
		if isDuplicateKey(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
