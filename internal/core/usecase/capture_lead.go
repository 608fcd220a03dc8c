package usecase

import (
	"context"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"
)

type CaptureLeadUseCase struct {
	leads  port.LeadRepositoryPort
	events port.EventPublisherPort
}

func NewCaptureLeadUseCase(leads port.LeadRepositoryPort, events port.EventPublisherPort) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{leads: leads, events: events}
}

// Execute сохраняет заявку. Существование объявления не проверяется.
func (uc *CaptureLeadUseCase) Execute(ctx context.Context, lead domain.NewLead) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "CaptureLead",
		"property_id": lead.PropertyID,
	})
	ucLogger.Info("Use case started", nil)

	lead.Normalize()
	if err := lead.Validate(); err != nil {
		ucLogger.Warn("Lead rejected by validation", port.Fields{"reason": err.Error()})
		return err
	}

	created, err := uc.leads.Create(ctx, lead)
	if err != nil {
		ucLogger.Error("Failed to insert lead", err, nil)
		return domain.NewStoreError("insert lead", err)
	}

	publishEvent(ctx, uc.events, domain.LeadCaptured{
		LeadID:     created.ID,
		PropertyID: created.PropertyID,
		FullName:   created.FullName,
		OccurredAt: time.Now().UTC(),
	})

	ucLogger.Info("Use case finished successfully", port.Fields{"lead_id": created.ID})
	return nil
}
