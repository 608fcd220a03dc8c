package usecase

import (
	"context"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/google/uuid"
)

type GetPropertyDetailsUseCase struct {
	properties port.PropertyRepositoryPort
	images     port.PropertyImageRepositoryPort
	blobs      port.BlobStoragePort
}

func NewGetPropertyDetailsUseCase(
	properties port.PropertyRepositoryPort,
	images port.PropertyImageRepositoryPort,
	blobs port.BlobStoragePort,
) *GetPropertyDetailsUseCase {
	return &GetPropertyDetailsUseCase{properties: properties, images: images, blobs: blobs}
}

func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, propertyID uuid.UUID) (*domain.PropertyDetails, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "GetPropertyDetails",
		"property_id": propertyID,
	})
	ucLogger.Info("Use case started", nil)

	property, err := uc.properties.GetByID(ctx, propertyID)
	if err != nil {
		ucLogger.Error("Failed to get property", err, nil)
		return nil, domain.NewStoreError("get property", err)
	}
	if property == nil {
		ucLogger.Warn("Property not found", nil)
		return nil, domain.ErrPropertyNotFound
	}

	images, err := uc.images.ListByProperty(ctx, propertyID)
	if err != nil {
		ucLogger.Error("Failed to list property images", err, nil)
		return nil, domain.NewStoreError("list property images", err)
	}
	withPublicURLs(uc.blobs, images)

	ucLogger.Info("Use case finished successfully", port.Fields{"images": len(images)})
	return &domain.PropertyDetails{Property: *property, Images: images}, nil
}

type ListPropertyImagesUseCase struct {
	properties port.PropertyRepositoryPort
	images     port.PropertyImageRepositoryPort
	blobs      port.BlobStoragePort
}

func NewListPropertyImagesUseCase(
	properties port.PropertyRepositoryPort,
	images port.PropertyImageRepositoryPort,
	blobs port.BlobStoragePort,
) *ListPropertyImagesUseCase {
	return &ListPropertyImagesUseCase{properties: properties, images: images, blobs: blobs}
}

// Execute возвращает галерею объявления, новые фото первыми.
func (uc *ListPropertyImagesUseCase) Execute(ctx context.Context, propertyID uuid.UUID) ([]domain.PropertyImage, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "ListPropertyImages",
		"property_id": propertyID,
	})

	exists, err := uc.properties.Exists(ctx, propertyID)
	if err != nil {
		ucLogger.Error("Failed to check property existence", err, nil)
		return nil, domain.NewStoreError("check property", err)
	}
	if !exists {
		return nil, domain.ErrPropertyNotFound
	}

	images, err := uc.images.ListByProperty(ctx, propertyID)
	if err != nil {
		ucLogger.Error("Failed to list property images", err, nil)
		return nil, domain.NewStoreError("list property images", err)
	}
	withPublicURLs(uc.blobs, images)
	return images, nil
}

func withPublicURLs(blobs port.BlobStoragePort, images []domain.PropertyImage) {
	for i := range images {
		images[i].PublicURL = blobs.PublicURL(images[i].Path)
	}
}
