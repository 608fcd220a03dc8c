package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

type SubmitListingUseCase struct {
	properties port.PropertyRepositoryPort
	uploader   usecases_port.UploadPropertyImageUseCasePort
	events     port.EventPublisherPort
	maxSize    int64
}

func NewSubmitListingUseCase(
	properties port.PropertyRepositoryPort,
	uploader usecases_port.UploadPropertyImageUseCasePort,
	events port.EventPublisherPort,
	maxSize int64,
) *SubmitListingUseCase {
	return &SubmitListingUseCase{
		properties: properties,
		uploader:   uploader,
		events:     events,
		maxSize:    maxSize,
	}
}

// Execute создает объявление в статусе PENDING и загружает приложенные фото.
// Объявление записывается первым, фото получают ключи с его настоящим id.
func (uc *SubmitListingUseCase) Execute(ctx context.Context, listing domain.NewListing, images []domain.ImageFile) (uuid.UUID, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SubmitListing",
		"images":   len(images),
	})
	ucLogger.Info("Use case started", nil)

	listing.Normalize()
	if err := listing.Validate(); err != nil {
		ucLogger.Warn("Listing rejected by validation", port.Fields{"reason": err.Error()})
		return uuid.Nil, err
	}
	for i, img := range images {
		if _, err := domain.ValidateImage(img, uc.maxSize); err != nil {
			ucLogger.Warn("Attached image rejected by validation", port.Fields{"index": i, "reason": err.Error()})
			return uuid.Nil, err
		}
	}

	property, err := uc.properties.Create(ctx, listing)
	if err != nil {
		ucLogger.Error("Failed to insert property", err, nil)
		return uuid.Nil, domain.NewStoreError("insert property", err)
	}
	ucLogger = ucLogger.WithFields(port.Fields{"property_id": property.ID})

	publishEvent(ctx, uc.events, domain.ListingSubmitted{
		PropertyID: property.ID,
		Title:      property.Title,
		City:       property.City,
		State:      property.State,
		Price:      property.Price,
		OccurredAt: time.Now().UTC(),
	})

	for i, img := range images {
		if _, err := uc.uploader.Execute(ctx, property.ID, img); err != nil {
			// объявление остается, оставшиеся фото не загружаются
			ucLogger.Error("Image upload failed after property insert", err, port.Fields{"index": i})
			return uuid.Nil, fmt.Errorf("failed to upload image %d: %w", i+1, err)
		}
	}

	ucLogger.Info("Use case finished successfully", nil)
	return property.ID, nil
}
