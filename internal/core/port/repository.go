package port

import (
	"context"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"

	"github.com/google/uuid"
)

// PropertyRepositoryPort - контракт для таблицы properties.
type PropertyRepositoryPort interface {
	Create(ctx context.Context, listing domain.NewListing) (*domain.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Find(ctx context.Context, filters domain.PropertyFilters, limit, offset int) (*domain.PaginatedProperties, error)
	FindSummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.PropertySummary, error)
	// SetVerification возвращает domain.ErrPropertyNotFound, если строка не обновлена.
	SetVerification(ctx context.Context, id uuid.UUID, verified bool) error
}

// PropertyImageRepositoryPort - контракт для таблицы property_images.
type PropertyImageRepositoryPort interface {
	Create(ctx context.Context, propertyID uuid.UUID, path string) (*domain.PropertyImage, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.PropertyImage, error)
}

// LeadRepositoryPort - контракт для таблицы leads.
type LeadRepositoryPort interface {
	Create(ctx context.Context, lead domain.NewLead) (*domain.Lead, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Lead, error)
}

// OpsUserRepositoryPort - учетные записи операторов (режим сессий).
type OpsUserRepositoryPort interface {
	// FindByEmail возвращает nil, nil, если пользователь не найден.
	FindByEmail(ctx context.Context, email string) (*domain.OpsUser, error)
}
