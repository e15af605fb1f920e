package stats

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
	require.NoError(t, db.AutoMigrate(
		&domain.Profile{}, &domain.UserRole{}, &domain.Property{},
		&domain.PropertyImage{}, &domain.Favorite{}, &domain.PropertyView{},
		&domain.Promotion{},
	))
	return &Service{DB: db}
}

func createProperty(t *testing.T, db *gorm.DB, ownerID uuid.UUID, status, city string) domain.Property {
	p := domain.Property{
		OwnerID:      ownerID,
		Title:        "Loft",
		PropertyType: constants.TypeApartment,
		City:         city,
		Address:      "Hauptstr. 12",
		Price:        900,
		Status:       status,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestHostStats(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()

	published := createProperty(t, svc.DB, owner, constants.StatusPublished, "Berlin")
	createProperty(t, svc.DB, owner, constants.StatusDraft, "Berlin")
	createProperty(t, svc.DB, uuid.New(), constants.StatusPublished, "Hamburg") // other host

	// Two recent views, one old one outside both windows.
	for _, at := range []time.Time{time.Now(), time.Now().AddDate(0, 0, -2)} {
		v := domain.PropertyView{PropertyID: published.ID, ViewedAt: at}
		require.NoError(t, svc.DB.Create(&v).Error)
	}
	old := domain.PropertyView{PropertyID: published.ID, ViewedAt: time.Now().AddDate(0, 0, -40)}
	require.NoError(t, svc.DB.Create(&old).Error)

	fav := domain.Favorite{UserID: uuid.New(), PropertyID: published.ID}
	require.NoError(t, svc.DB.Create(&fav).Error)

	got, err := svc.HostStats(context.Background(), owner)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.TotalListings)
	assert.EqualValues(t, 1, got.PublishedListings)
	assert.EqualValues(t, 1, got.DraftListings)
	assert.EqualValues(t, 2, got.TotalViews7d)
	assert.EqualValues(t, 2, got.TotalViews30d)
	assert.EqualValues(t, 1, got.TotalFavorites)
}

func TestHostStats_EmptyPortfolio(t *testing.T) {
	svc := setupService(t)
	got, err := svc.HostStats(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.TotalListings)
	assert.EqualValues(t, 0, got.TotalViews30d)
}

func TestAdminStats(t *testing.T) {
	svc := setupService(t)

	alice := domain.Profile{Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	bob := domain.Profile{Name: "Bob", Email: "bob@example.com", PasswordHash: "x"}
	require.NoError(t, svc.DB.Create(&alice).Error)
	require.NoError(t, svc.DB.Create(&bob).Error)
	require.NoError(t, svc.DB.Create(&domain.UserRole{UserID: alice.ID, Role: constants.RoleRenter}).Error)
	require.NoError(t, svc.DB.Create(&domain.UserRole{UserID: bob.ID, Role: constants.RoleRenter}).Error)
	require.NoError(t, svc.DB.Create(&domain.UserRole{UserID: bob.ID, Role: constants.RoleHost}).Error)

	p := createProperty(t, svc.DB, bob.ID, constants.StatusPublished, "Berlin")
	createProperty(t, svc.DB, bob.ID, constants.StatusDraft, "Berlin")

	require.NoError(t, svc.DB.Create(&domain.Favorite{UserID: alice.ID, PropertyID: p.ID}).Error)
	require.NoError(t, svc.DB.Create(&domain.PropertyView{PropertyID: p.ID, ViewedAt: time.Now()}).Error)

	now := time.Now()
	promo := domain.Promotion{
		PropertyID: p.ID, Plan: constants.PlanWeek,
		StartDate: now, EndDate: now.AddDate(0, 0, 7),
		AmountPaid: 29.99, IsActive: true,
	}
	require.NoError(t, svc.DB.Create(&promo).Error)

	got, err := svc.AdminStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.TotalUsers)
	assert.EqualValues(t, 2, got.TotalRenters)
	assert.EqualValues(t, 1, got.TotalHosts)
	assert.EqualValues(t, 2, got.TotalProperties)
	assert.EqualValues(t, 1, got.PublishedProperties)
	assert.EqualValues(t, 1, got.TotalFavorites)
	assert.EqualValues(t, 1, got.TotalViews)
	assert.InDelta(t, 29.99, got.TotalRevenue, 0.001)
}

func TestViewsOverTime_FillsMissingDays(t *testing.T) {
	svc := setupService(t)
	p := createProperty(t, svc.DB, uuid.New(), constants.StatusPublished, "Berlin")

	require.NoError(t, svc.DB.Create(&domain.PropertyView{PropertyID: p.ID, ViewedAt: time.Now()}).Error)

	points, err := svc.ViewsOverTime(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, points, 7)

	var total int64
	for _, pt := range points {
		total += pt.Count
	}
	assert.EqualValues(t, 1, total)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), points[6].Date)
}

func TestPropertiesByCity_SortedDescending(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	createProperty(t, svc.DB, owner, constants.StatusPublished, "Berlin")
	createProperty(t, svc.DB, owner, constants.StatusPublished, "Berlin")
	createProperty(t, svc.DB, owner, constants.StatusDraft, "Hamburg")

	counts, err := svc.PropertiesByCity(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "Berlin", counts[0].City)
	assert.EqualValues(t, 2, counts[0].Count)
}
