package properties

import (
	"context"
	"errors"
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
		&domain.Property{}, &domain.PropertyImage{},
		&domain.Promotion{}, &domain.PropertyView{},
	))
	return &Service{DB: db}
}

func publishableInput(ownerID uuid.UUID) CreatePropertyInput {
	return CreatePropertyInput{
		OwnerID:      ownerID,
		Title:        "Sunny Loft",
		Description:  "Bright loft near the park",
		PropertyType: constants.TypeApartment,
		City:         "Berlin",
		Address:      "Hauptstr. 12",
		Price:        1200,
		Bedrooms:     2,
		Bathrooms:    1,
		Amenities:    []string{"wifi"},
		ImageURLs:    []string{"a.jpg", "b.jpg"},
		CoverIndex:   0,
	}
}

func TestCreate_StartsAsDraftWithImages(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()

	p, err := svc.Create(context.Background(), publishableInput(owner))
	require.NoError(t, err)

	assert.Equal(t, constants.StatusDraft, p.Status)
	require.Len(t, p.Images, 2)
	assert.True(t, p.Images[0].IsCover)
	assert.False(t, p.Images[1].IsCover)
	assert.Equal(t, 0, p.Images[0].DisplayOrder)
	assert.Equal(t, []string{"wifi"}, []string(p.Amenities))
}

func TestCreate_RejectsInvalidType(t *testing.T) {
	svc := setupService(t)
	in := publishableInput(uuid.New())
	in.PropertyType = "castle"
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestCreate_RejectsNegativePrice(t *testing.T) {
	svc := setupService(t)
	in := publishableInput(uuid.New())
	in.Price = -5
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestSetStatus_PublishGateBlocksWithoutImages(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	in := publishableInput(owner)
	in.ImageURLs = nil
	p, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), p.ID, owner, constants.StatusPublished)
	var blocked *PublishBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Contains(t, blocked.MissingFields, "At least 1 image")

	// Status unchanged on rejection.
	reloaded, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusDraft, reloaded.Status)
}

func TestSetStatus_PublishSucceedsWhenComplete(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p, err := svc.Create(context.Background(), publishableInput(owner))
	require.NoError(t, err)

	published, err := svc.SetStatus(context.Background(), p.ID, owner, constants.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPublished, published.Status)
}

func TestSetStatus_UnpublishIsUnguarded(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p, _ := svc.Create(context.Background(), publishableInput(owner))
	_, err := svc.SetStatus(context.Background(), p.ID, owner, constants.StatusPublished)
	require.NoError(t, err)

	back, err := svc.SetStatus(context.Background(), p.ID, owner, constants.StatusDraft)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusDraft, back.Status)
}

func TestSetStatus_ArchiveAndRestore(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p, _ := svc.Create(context.Background(), publishableInput(owner))

	archived, err := svc.SetStatus(context.Background(), p.ID, owner, constants.StatusArchived)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusArchived, archived.Status)

	restored, err := svc.SetStatus(context.Background(), p.ID, owner, constants.StatusDraft)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusDraft, restored.Status)
}

func TestSetStatus_OwnershipEnforced(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p, _ := svc.Create(context.Background(), publishableInput(owner))

	_, err := svc.SetStatus(context.Background(), p.ID, uuid.New(), constants.StatusArchived)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestToggleStatus_Symmetry(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p, _ := svc.Create(context.Background(), publishableInput(owner))

	// draft -> published (gate passes)
	first, err := svc.ToggleStatus(context.Background(), p.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPublished, first.Status)

	// published -> draft, unconditional
	second, err := svc.ToggleStatus(context.Background(), p.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusDraft, second.Status)

	// and back again
	third, err := svc.ToggleStatus(context.Background(), p.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPublished, third.Status)
}

func TestValidateForPublish_NamesEveryMissingField(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	in := CreatePropertyInput{
		OwnerID:      owner,
		Title:        "",
		PropertyType: constants.TypeStudio,
		City:         "",
		Address:      "",
		Price:        0,
	}
	p, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	v, err := svc.ValidateForPublish(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, v.CanPublish)
	assert.Equal(t, []string{"Title", "Price", "City", "Address", "At least 1 image"}, v.MissingFields)
}

func TestValidateForPublish_NotFound(t *testing.T) {
	svc := setupService(t)
	_, err := svc.ValidateForPublish(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_ReplacesImagesWholesale(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p, _ := svc.Create(context.Background(), publishableInput(owner))

	updated, err := svc.Update(context.Background(), p.ID, owner, UpdatePropertyInput{
		ReplaceImages: []string{"x.jpg", "y.jpg", "z.jpg"},
		CoverIndex:    1,
	})
	require.NoError(t, err)
	require.Len(t, updated.Images, 3)
	assert.Equal(t, "x.jpg", updated.Images[0].ImageURL)
	assert.True(t, updated.Images[1].IsCover)

	var count int64
	svc.DB.Model(&domain.PropertyImage{}).Where("property_id = ?", p.ID).Count(&count)
	assert.EqualValues(t, 3, count)
}

func TestUpdate_EmptyReplaceClearsImages(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p, _ := svc.Create(context.Background(), publishableInput(owner))

	updated, err := svc.Update(context.Background(), p.ID, owner, UpdatePropertyInput{
		ReplaceImages: []string{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Images)
}

func TestUpdate_NoChangesRejected(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p, _ := svc.Create(context.Background(), publishableInput(owner))

	_, err := svc.Update(context.Background(), p.ID, owner, UpdatePropertyInput{})
	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestUpdate_DoesNotAutoUnpublish(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p, _ := svc.Create(context.Background(), publishableInput(owner))
	_, err := svc.SetStatus(context.Background(), p.ID, owner, constants.StatusPublished)
	require.NoError(t, err)

	// Clearing the title makes a published listing incomplete, but no
	// automatic transition occurs.
	empty := ""
	updated, err := svc.Update(context.Background(), p.ID, owner, UpdatePropertyInput{Title: &empty})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPublished, updated.Status)
}

func TestDelete_RemovesPropertyAndImages(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p, _ := svc.Create(context.Background(), publishableInput(owner))

	require.NoError(t, svc.Delete(context.Background(), p.ID, owner))

	_, err := svc.Get(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	svc.DB.Model(&domain.PropertyImage{}).Where("property_id = ?", p.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestPublished_PromotedFirst(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()

	older, _ := svc.Create(context.Background(), publishableInput(owner))
	time.Sleep(5 * time.Millisecond)
	newer, _ := svc.Create(context.Background(), publishableInput(owner))
	for _, id := range []uuid.UUID{older.ID, newer.ID} {
		_, err := svc.SetStatus(context.Background(), id, owner, constants.StatusPublished)
		require.NoError(t, err)
	}

	now := time.Now()
	promo := domain.Promotion{
		PropertyID: older.ID,
		Plan:       constants.PlanWeek,
		StartDate:  now.Add(-time.Hour),
		EndDate:    now.Add(time.Hour),
		AmountPaid: 29.99,
		IsActive:   true,
	}
	require.NoError(t, svc.DB.Create(&promo).Error)

	list, err := svc.Published(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, older.ID, list[0].ID)
	assert.True(t, list[0].IsPromoted)
	assert.False(t, list[1].IsPromoted)
}

func TestPublished_ExpiredPromotionIgnored(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p, _ := svc.Create(context.Background(), publishableInput(owner))
	_, err := svc.SetStatus(context.Background(), p.ID, owner, constants.StatusPublished)
	require.NoError(t, err)

	now := time.Now()
	promo := domain.Promotion{
		PropertyID: p.ID,
		Plan:       constants.PlanWeek,
		StartDate:  now.Add(-48 * time.Hour),
		EndDate:    now.Add(-24 * time.Hour),
		IsActive:   true,
	}
	require.NoError(t, svc.DB.Create(&promo).Error)

	list, err := svc.Published(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsPromoted)
}

func TestSearch_Filters(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()

	berlin := publishableInput(owner)
	berlin.City = "Berlin"
	berlin.Price = 900
	berlin.Bedrooms = 1

	hamburg := publishableInput(owner)
	hamburg.City = "Hamburg"
	hamburg.PropertyType = constants.TypeHouse
	hamburg.Price = 2500
	hamburg.Bedrooms = 4

	for _, in := range []CreatePropertyInput{berlin, hamburg} {
		p, err := svc.Create(context.Background(), in)
		require.NoError(t, err)
		_, err = svc.SetStatus(context.Background(), p.ID, owner, constants.StatusPublished)
		require.NoError(t, err)
	}

	// Drafts never show up in search.
	draft := publishableInput(owner)
	draft.City = "Berlin"
	_, err := svc.Create(context.Background(), draft)
	require.NoError(t, err)

	results, err := svc.Search(context.Background(), SearchFilters{City: "berl"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Berlin", results[0].City)

	min := 1000.0
	results, err = svc.Search(context.Background(), SearchFilters{MinPrice: &min})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Hamburg", results[0].City)

	beds := 2
	results, err = svc.Search(context.Background(), SearchFilters{Bedrooms: &beds})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 4, results[0].Bedrooms)

	results, err = svc.Search(context.Background(), SearchFilters{PropertyType: "all"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestTrackView_AppendsEvents(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()
	p, _ := svc.Create(context.Background(), publishableInput(owner))

	viewer := uuid.New()
	require.NoError(t, svc.TrackView(context.Background(), p.ID, &viewer))
	require.NoError(t, svc.TrackView(context.Background(), p.ID, nil))

	var count int64
	svc.DB.Model(&domain.PropertyView{}).Where("property_id = ?", p.ID).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestNeedsAttention_UsesHostListOrder(t *testing.T) {
	svc := setupService(t)
	owner := uuid.New()

	for i := 0; i < 5; i++ {
		in := CreatePropertyInput{
			OwnerID:      owner,
			Title:        "Draft",
			PropertyType: constants.TypeStudio,
		}
		_, err := svc.Create(context.Background(), in)
		require.NoError(t, err)
	}

	items, err := svc.NeedsAttention(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestGet_NotFound(t *testing.T) {
	svc := setupService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
}
