package promotions

import (
	"context"
	"testing"
	"time"

	"rentora-backend/internal/domain"
	"rentora-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupService(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Property{}, &domain.Promotion{}))
	return &Service{DB: db}
}

func createProperty(t *testing.T, db *gorm.DB, ownerID uuid.UUID) domain.Property {
	p := domain.Property{
		OwnerID:      ownerID,
		Title:        "Loft",
		PropertyType: constants.TypeApartment,
		City:         "Berlin",
		Address:      "Hauptstr. 12",
		Price:        900,
		Status:       constants.StatusPublished,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestActivate_WeekPlan(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p := createProperty(t, svc.DB, owner)

	promo, err := svc.Activate(context.Background(), p.ID, constants.PlanWeek, PlanPrices[constants.PlanWeek])
	require.NoError(t, err)
	assert.True(t, promo.IsActive)
	assert.Equal(t, 29.99, promo.AmountPaid)
	assert.WithinDuration(t, promo.StartDate.Add(7*24*time.Hour), promo.EndDate, time.Second)

	promoted, err := svc.IsPromoted(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, promoted)
}

func TestActivate_InvalidPlan(t *testing.T) {
	svc := setupService(t)
	_, err := svc.Activate(context.Background(), uuid.New(), "year", 10)
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestActive_NilWhenExpired(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p := createProperty(t, svc.DB, owner)

	now := time.Now()
	expired := domain.Promotion{
		PropertyID: p.ID,
		Plan:       constants.PlanWeek,
		StartDate:  now.Add(-14 * 24 * time.Hour),
		EndDate:    now.Add(-7 * 24 * time.Hour),
		IsActive:   true,
	}
	require.NoError(t, svc.DB.Create(&expired).Error)

	promo, err := svc.Active(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Nil(t, promo)
}

func TestCheckOwnership(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p := createProperty(t, svc.DB, owner)

	assert.NoError(t, svc.CheckOwnership(context.Background(), p.ID, owner))
	assert.ErrorIs(t, svc.CheckOwnership(context.Background(), p.ID, uuid.New()), ErrNotOwner)
	assert.ErrorIs(t, svc.CheckOwnership(context.Background(), uuid.New(), owner), ErrPropertyNotFound)
}

func TestHostPromotions_AcrossProperties(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p1 := createProperty(t, svc.DB, owner)
	p2 := createProperty(t, svc.DB, owner)
	other := createProperty(t, svc.DB, uuid.New())

	for _, p := range []domain.Property{p1, p2, other} {
		_, err := svc.Activate(context.Background(), p.ID, constants.PlanMonth, PlanPrices[constants.PlanMonth])
		require.NoError(t, err)
	}

	promos, err := svc.HostPromotions(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, promos, 2)
}

func TestHistory_NewestFirst(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p := createProperty(t, svc.DB, owner)

	_, err := svc.Activate(context.Background(), p.ID, constants.PlanWeek, 29.99)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = svc.Activate(context.Background(), p.ID, constants.PlanMonth, 99.99)
	require.NoError(t, err)

	history, err := svc.History(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, constants.PlanMonth, history[0].Plan)
}
