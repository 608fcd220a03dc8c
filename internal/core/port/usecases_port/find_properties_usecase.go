package usecases_port

import (
	"context"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"

	"github.com/google/uuid"
)

type FindPropertiesUseCasePort interface {
	Execute(ctx context.Context, filters domain.PropertyFilters, limit, offset int) (*domain.PaginatedProperties, error)
}

type GetPropertyDetailsUseCasePort interface {
	Execute(ctx context.Context, propertyID uuid.UUID) (*domain.PropertyDetails, error)
}

type ListPropertyImagesUseCasePort interface {
	Execute(ctx context.Context, propertyID uuid.UUID) ([]domain.PropertyImage, error)
}
