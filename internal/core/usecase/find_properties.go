package usecase

import (
	"context"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 60
)

type FindPropertiesUseCase struct {
	properties port.PropertyRepositoryPort
}

func NewFindPropertiesUseCase(properties port.PropertyRepositoryPort) *FindPropertiesUseCase {
	return &FindPropertiesUseCase{properties: properties}
}

func (uc *FindPropertiesUseCase) Execute(ctx context.Context, filters domain.PropertyFilters, limit, offset int) (*domain.PaginatedProperties, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	filters.Sort = domain.ParseSortKey(string(filters.Sort))

	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":      "FindProperties",
		"city":          filters.City,
		"verified_only": filters.VerifiedOnly,
		"sort":          filters.Sort,
		"limit":         limit,
		"offset":        offset,
	})
	ucLogger.Info("Use case started", nil)

	result, err := uc.properties.Find(ctx, filters, limit, offset)
	if err != nil {
		ucLogger.Error("Failed to find properties", err, nil)
		return nil, domain.NewStoreError("find properties", err)
	}
	result.CurrentPage = offset/limit + 1
	result.ItemsPerPage = limit

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Properties),
	})
	return result, nil
}
