package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/google/uuid"
)

type SetVerificationUseCase struct {
	properties port.PropertyRepositoryPort
	events     port.EventPublisherPort
}

func NewSetVerificationUseCase(properties port.PropertyRepositoryPort, events port.EventPublisherPort) *SetVerificationUseCase {
	return &SetVerificationUseCase{properties: properties, events: events}
}

// Execute переключает флаг verification в любую сторону. Побеждает последняя запись.
func (uc *SetVerificationUseCase) Execute(ctx context.Context, propertyID uuid.UUID, verified bool) error {
	changedBy := ""
	if principal := contextkeys.PrincipalFromContext(ctx); principal != nil {
		changedBy = principal.Identity
	}

	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "SetVerification",
		"property_id": propertyID,
		"verified":    verified,
		"changed_by":  changedBy,
	})
	ucLogger.Info("Use case started", nil)

	if err := uc.properties.SetVerification(ctx, propertyID, verified); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			ucLogger.Warn("Property not found", nil)
			return err
		}
		ucLogger.Error("Failed to update verification", err, nil)
		return domain.NewStoreError("update verification", err)
	}

	state := domain.VerificationPending
	if verified {
		state = domain.VerificationVerified
	}
	publishEvent(ctx, uc.events, domain.VerificationChanged{
		PropertyID:   propertyID,
		Verification: state,
		ChangedBy:    changedBy,
		OccurredAt:   time.Now().UTC(),
	})

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
