package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureLead(t *testing.T) {
	leads := &fakeLeadRepo{}
	events := &fakePublisher{}
	uc := NewCaptureLeadUseCase(leads, events)

	err := uc.Execute(context.Background(), domain.NewLead{PropertyID: uuid.New(), FullName: " Asha Patil ", Phone: " +91 98220 00000 "})
	require.NoError(t, err)

	require.Len(t, leads.rows, 1)
	assert.Equal(t, "Asha Patil", leads.rows[0].FullName)
	assert.Equal(t, "+91 98220 00000", leads.rows[0].Phone)
	assert.Equal(t, []string{"lead.captured"}, events.routingKeys())
}

func TestCaptureLead_EmptyPhoneCreatesNoRow(t *testing.T) {
	leads := &fakeLeadRepo{}
	uc := NewCaptureLeadUseCase(leads, &fakePublisher{})

	err := uc.Execute(context.Background(), domain.NewLead{PropertyID: uuid.New(), FullName: "Asha", Phone: "   "})

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "Please enter your phone", vErr.Message)
	assert.Empty(t, leads.rows)
}

func TestCaptureLead_StoreError(t *testing.T) {
	leads := &fakeLeadRepo{createErr: errStoreDown}
	events := &fakePublisher{}

	err := NewCaptureLeadUseCase(leads, events).Execute(context.Background(), domain.NewLead{PropertyID: uuid.New(), FullName: "Asha", Phone: "1"})
	assert.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, events.routingKeys())
}

func TestListLeads_JoinsInMemoryAndKeepsUnmatched(t *testing.T) {
	ctx := context.Background()
	properties := newFakePropertyRepo()
	leads := &fakeLeadRepo{}

	p, err := properties.Create(ctx, domain.NewListing{Title: "Plot A", City: "Pune", State: "MH"})
	require.NoError(t, err)
	require.NoError(t, properties.SetVerification(ctx, p.ID, true))
	ghost := uuid.New()

	capture := NewCaptureLeadUseCase(leads, nil)
	require.NoError(t, capture.Execute(ctx, domain.NewLead{PropertyID: p.ID, FullName: "First", Phone: "1"}))
	require.NoError(t, capture.Execute(ctx, domain.NewLead{PropertyID: ghost, FullName: "Second", Phone: "2"}))
	require.NoError(t, capture.Execute(ctx, domain.NewLead{PropertyID: p.ID, FullName: "Third", Phone: "3"}))

	rows, err := NewListLeadsUseCase(leads, properties, 0).Execute(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// новые заявки первыми
	assert.Equal(t, "Third", rows[0].Lead.FullName)
	assert.Equal(t, "Second", rows[1].Lead.FullName)
	assert.Equal(t, "First", rows[2].Lead.FullName)

	require.NotNil(t, rows[0].Property)
	assert.Equal(t, "Plot A", rows[0].Property.Title)
	assert.Equal(t, domain.VerificationVerified, rows[0].Property.Verification)

	assert.Nil(t, rows[1].Property)
	assert.Equal(t, ghost, rows[1].Lead.PropertyID)
}

func TestListLeads_CapsPageSize(t *testing.T) {
	ctx := context.Background()
	leads := &fakeLeadRepo{}
	capture := NewCaptureLeadUseCase(leads, nil)
	for i := 0; i < 5; i++ {
		require.NoError(t, capture.Execute(ctx, domain.NewLead{PropertyID: uuid.New(), FullName: "Buyer", Phone: "1"}))
	}

	rows, err := NewListLeadsUseCase(leads, newFakePropertyRepo(), 2).Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestListLeads_Empty(t *testing.T) {
	rows, err := NewListLeadsUseCase(&fakeLeadRepo{}, newFakePropertyRepo(), 10).Execute(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
