package usecases_port

import (
	"context"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"

	"github.com/google/uuid"
)

type UploadPropertyImageUseCasePort interface {
	Execute(ctx context.Context, propertyID uuid.UUID, file domain.ImageFile) (*domain.UploadedImage, error)
}

type UploadHeroImageUseCasePort interface {
	Execute(ctx context.Context, file domain.ImageFile) (*domain.UploadedImage, error)
}
