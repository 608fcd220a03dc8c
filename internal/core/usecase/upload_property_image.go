package usecase

import (
	"context"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/google/uuid"
)

const compensationTimeout = 10 * time.Second

type UploadPropertyImageUseCase struct {
	properties port.PropertyRepositoryPort
	images     port.PropertyImageRepositoryPort
	blobs      port.BlobStoragePort
	events     port.EventPublisherPort
	maxSize    int64
}

func NewUploadPropertyImageUseCase(
	properties port.PropertyRepositoryPort,
	images port.PropertyImageRepositoryPort,
	blobs port.BlobStoragePort,
	events port.EventPublisherPort,
	maxSize int64,
) *UploadPropertyImageUseCase {
	return &UploadPropertyImageUseCase{
		properties: properties,
		images:     images,
		blobs:      blobs,
		events:     events,
		maxSize:    maxSize,
	}
}

// Execute загружает файл и привязывает его к объявлению.
// Если строку property_images записать не удалось, файл удаляется из хранилища.
func (uc *UploadPropertyImageUseCase) Execute(ctx context.Context, propertyID uuid.UUID, file domain.ImageFile) (*domain.UploadedImage, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":     "UploadPropertyImage",
		"property_id":  propertyID,
		"file_name":    file.FileName,
		"content_type": file.ContentType,
		"size":         file.Size,
	})
	ucLogger.Info("Use case started", nil)

	contentType, err := domain.ValidateImage(file, uc.maxSize)
	if err != nil {
		ucLogger.Warn("Image rejected by validation", port.Fields{"reason": err.Error()})
		return nil, err
	}

	exists, err := uc.properties.Exists(ctx, propertyID)
	if err != nil {
		ucLogger.Error("Failed to check property existence", err, nil)
		return nil, domain.NewStoreError("check property", err)
	}
	if !exists {
		ucLogger.Warn("Property not found, upload rejected", nil)
		return nil, domain.ErrPropertyNotFound
	}

	key := domain.PropertyImageKey(propertyID, file.FileName)
	ucLogger = ucLogger.WithFields(port.Fields{"key": key})

	// Шаг 1: файл в хранилище, без перезаписи
	if err := uc.blobs.Upload(ctx, key, file.Body, contentType); err != nil {
		ucLogger.Error("Failed to upload image blob", err, nil)
		return nil, domain.NewStoreError("upload image", err)
	}

	// Шаг 2: строка, ссылающаяся на файл
	image, err := uc.images.Create(ctx, propertyID, key)
	if err != nil {
		ucLogger.Error("Failed to insert property image row, removing uploaded blob", err, nil)
		uc.compensate(ctx, ucLogger, key)
		return nil, domain.NewStoreError("insert property image", err)
	}

	result := &domain.UploadedImage{
		ID:         image.ID,
		PropertyID: propertyID,
		Path:       key,
		PublicURL:  uc.blobs.PublicURL(key),
	}

	publishEvent(ctx, uc.events, domain.ImageUploaded{
		ImageID:    image.ID,
		PropertyID: propertyID,
		Path:       key,
		OccurredAt: time.Now().UTC(),
	})

	ucLogger.Info("Use case finished successfully", port.Fields{"image_id": image.ID})
	return result, nil
}

// compensate удаляет только что записанный файл. Ошибка удаления только логируется.
func (uc *UploadPropertyImageUseCase) compensate(ctx context.Context, logger port.LoggerPort, key string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if err := uc.blobs.Remove(cleanupCtx, []string{key}); err != nil {
		logger.Error("Compensating delete failed, blob is orphaned", err, port.Fields{"orphan_key": key})
		return
	}
	logger.Info("Compensating delete succeeded", nil)
}

type UploadHeroImageUseCase struct {
	blobs   port.BlobStoragePort
	maxSize int64
}

func NewUploadHeroImageUseCase(blobs port.BlobStoragePort, maxSize int64) *UploadHeroImageUseCase {
	return &UploadHeroImageUseCase{blobs: blobs, maxSize: maxSize}
}

// Execute сохраняет главное фото до создания объявления и возвращает его публичный URL.
func (uc *UploadHeroImageUseCase) Execute(ctx context.Context, file domain.ImageFile) (*domain.UploadedImage, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "UploadHeroImage",
		"file_name": file.FileName,
	})
	ucLogger.Info("Use case started", nil)

	contentType, err := domain.ValidateImage(file, uc.maxSize)
	if err != nil {
		ucLogger.Warn("Hero image rejected by validation", port.Fields{"reason": err.Error()})
		return nil, err
	}

	key := domain.HeroImageKey(file.FileName)
	if err := uc.blobs.Upload(ctx, key, file.Body, contentType); err != nil {
		ucLogger.Error("Failed to upload hero image", err, port.Fields{"key": key})
		return nil, domain.NewStoreError("upload hero image", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"key": key})
	return &domain.UploadedImage{Path: key, PublicURL: uc.blobs.PublicURL(key)}, nil
}
