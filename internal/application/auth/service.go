package auth

import (
	"context"
	"errors"

	"rentora-backend/internal/domain"
	"rentora-backend/internal/pkg/constants"
	"rentora-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a profile with the default renter role.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Profile, error) {
	if !validation.IsValidName(in.Name) {
		return nil, ErrInvalidName
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, ErrWeakPassword
	}

	var existing domain.Profile
	err := s.DB.WithContext(ctx).Where("email = ?", in.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		role := domain.UserRole{UserID: profile.ID, Role: constants.RoleRenter}
		return tx.Create(&role).Error
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Login verifies credentials and returns the profile with its effective role.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Profile, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrEmailPasswordRequired
	}
	var profile domain.Profile
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	role, err := s.EffectiveRole(ctx, profile.ID)
	if err != nil {
		return nil, "", err
	}
	return &profile, role, nil
}

// EffectiveRole resolves the user's highest role in the renter < host < admin
// lattice. Users without role rows are renters.
func (s *Service) EffectiveRole(ctx context.Context, userID uuid.UUID) (string, error) {
	var roles []string
	err := s.DB.WithContext(ctx).
		Model(&domain.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role", &roles).Error
	if err != nil {
		return "", err
	}
	return constants.HighestRole(roles), nil
}

// BecomeHost grants the host role. Idempotent: granting twice is a no-op.
func (s *Service) BecomeHost(ctx context.Context, userID uuid.UUID) (string, error) {
	var existing domain.UserRole
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, constants.RoleHost).
		First(&existing).Error
	if err == nil {
		return s.EffectiveRole(ctx, userID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	role := domain.UserRole{UserID: userID, Role: constants.RoleHost}
	if err := s.DB.WithContext(ctx).Create(&role).Error; err != nil {
		return "", err
	}
	return s.EffectiveRole(ctx, userID)
}
