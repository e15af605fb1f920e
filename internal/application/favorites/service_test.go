package favorites

import (
	"context"
	"testing"

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
	require.NoError(t, db.AutoMigrate(&domain.Property{}, &domain.PropertyImage{}, &domain.Favorite{}))
	return &Service{DB: db}
}

func createProperty(t *testing.T, db *gorm.DB) domain.Property {
	p := domain.Property{
		OwnerID:      uuid.New(),
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

func TestToggle_AddsThenRemoves(t *testing.T) {
	svc := setupService(t)
	user := uuid.New()
	p := createProperty(t, svc.DB)

	favorited, err := svc.Toggle(context.Background(), user, p.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	is, err := svc.IsFavorite(context.Background(), user, p.ID)
	require.NoError(t, err)
	assert.True(t, is)

	favorited, err = svc.Toggle(context.Background(), user, p.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	is, err = svc.IsFavorite(context.Background(), user, p.ID)
	require.NoError(t, err)
	assert.False(t, is)
}

func TestToggle_IndependentPerUser(t *testing.T) {
	svc := setupService(t)
	p := createProperty(t, svc.DB)
	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.Toggle(context.Background(), alice, p.ID)
	require.NoError(t, err)

	is, err := svc.IsFavorite(context.Background(), bob, p.ID)
	require.NoError(t, err)
	assert.False(t, is)
}

func TestList_ReturnsFavoritedProperties(t *testing.T) {
	svc := setupService(t)
	user := uuid.New()
	liked := createProperty(t, svc.DB)
	createProperty(t, svc.DB) // not favorited

	_, err := svc.Toggle(context.Background(), user, liked.ID)
	require.NoError(t, err)

	list, err := svc.List(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, liked.ID, list[0].ID)
}

func TestList_EmptyWithoutFavorites(t *testing.T) {
	svc := setupService(t)
	list, err := svc.List(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestIDs(t *testing.T) {
	svc := setupService(t)
	user := uuid.New()
	p1 := createProperty(t, svc.DB)
	p2 := createProperty(t, svc.DB)

	for _, p := range []domain.Property{p1, p2} {
		_, err := svc.Toggle(context.Background(), user, p.ID)
		require.NoError(t, err)
	}

	ids, err := svc.IDs(context.Background(), user)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{p1.ID, p2.ID}, ids)
}
