package usecase

import (
	"context"
	"testing"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verifiedOnly(t *testing.T, find *FindPropertiesUseCase) []uuid.UUID {
	t.Helper()
	page, err := find.Execute(context.Background(), domain.PropertyFilters{VerifiedOnly: true}, 0, 0)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(page.Properties))
	for _, p := range page.Properties {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestVerificationGate_ToggleScenario(t *testing.T) {
	f := newSubmitFixture()
	ctx := contextkeys.ContextWithPrincipal(context.Background(),
		domain.NewOpsPrincipal("ops@example.com", domain.AuthMethodSession, domain.OpsCapabilities()...))

	id, err := f.submit.Execute(ctx, domain.NewListing{Title: "Plot A", City: "Pune", State: "MH"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, verifiedOnly(t, f.find), id)

	require.NoError(t, f.verify.Execute(ctx, id, true))
	assert.Contains(t, verifiedOnly(t, f.find), id)

	p, _ := f.properties.GetByID(ctx, id)
	assert.Equal(t, domain.VerificationVerified, p.Verification)

	require.NoError(t, f.verify.Execute(ctx, id, false))
	assert.NotContains(t, verifiedOnly(t, f.find), id)

	require.Len(t, f.events.events, 3)
	changed, ok := f.events.events[1].(domain.VerificationChanged)
	require.True(t, ok)
	assert.Equal(t, domain.VerificationVerified, changed.Verification)
	assert.Equal(t, "ops@example.com", changed.ChangedBy)
	assert.Equal(t, domain.VerificationPending, f.events.events[2].(domain.VerificationChanged).Verification)
}

func TestVerificationGate_OnlyExplicitMutationChangesState(t *testing.T) {
	f := newSubmitFixture()
	ctx := context.Background()

	id, err := f.submit.Execute(ctx, domain.NewListing{Title: "Plot A", City: "Pune", State: "MH"}, []domain.ImageFile{jpegFile("a.jpg")})
	require.NoError(t, err)

	_, err = f.find.Execute(ctx, domain.PropertyFilters{}, 10, 0)
	require.NoError(t, err)

	p, _ := f.properties.GetByID(ctx, id)
	assert.Equal(t, domain.VerificationPending, p.Verification)
}

func TestVerificationGate_LegacyNullIsPending(t *testing.T) {
	f := newSubmitFixture()
	legacyID := f.properties.insertLegacy("Old plot")

	p, err := f.properties.GetByID(context.Background(), legacyID)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, p.Verification)
	assert.NotContains(t, verifiedOnly(t, f.find), legacyID)
}

func TestVerificationGate_UnknownProperty(t *testing.T) {
	f := newSubmitFixture()

	err := f.verify.Execute(context.Background(), uuid.New(), true)
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
	assert.Empty(t, f.events.routingKeys())
}

func TestFindProperties_ClampsPaging(t *testing.T) {
	f := newSubmitFixture()
	for i := 0; i < 3; i++ {
		_, err := f.submit.Execute(context.Background(), domain.NewListing{Title: "Plot", City: "Pune", State: "MH"}, nil)
		require.NoError(t, err)
	}

	page, err := f.find.Execute(context.Background(), domain.PropertyFilters{Sort: "bogus"}, 1000, -5)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, page.ItemsPerPage)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, domain.SortNewest, f.properties.lastFilter.Sort)

	page, err = f.find.Execute(context.Background(), domain.PropertyFilters{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Len(t, page.Properties, 1)
}

func TestFindProperties_StoreError(t *testing.T) {
	f := newSubmitFixture()
	f.properties.findErr = errStoreDown

	_, err := f.find.Execute(context.Background(), domain.PropertyFilters{}, 0, 0)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestGetPropertyDetails(t *testing.T) {
	f := newSubmitFixture()
	ctx := context.Background()
	id, err := f.submit.Execute(ctx, domain.NewListing{Title: "Plot A", City: "Pune", State: "MH"}, []domain.ImageFile{jpegFile("a.jpg")})
	require.NoError(t, err)

	details, err := NewGetPropertyDetailsUseCase(f.properties, f.images, f.blobs).Execute(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Plot A", details.Property.Title)
	require.Len(t, details.Images, 1)
	assert.Equal(t, "https://cdn.example.com/media/"+details.Images[0].Path, details.Images[0].PublicURL)

	_, err = NewGetPropertyDetailsUseCase(f.properties, f.images, f.blobs).Execute(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)

	images, err := NewListPropertyImagesUseCase(f.properties, f.images, f.blobs).Execute(ctx, id)
	require.NoError(t, err)
	assert.Len(t, images, 1)

	_, err = NewListPropertyImagesUseCase(f.properties, f.images, f.blobs).Execute(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}
