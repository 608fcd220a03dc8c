package usecase

import (
	"context"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/google/uuid"
)

const DefaultLeadsLimit = 200

type ListLeadsUseCase struct {
	leads      port.LeadRepositoryPort
	properties port.PropertyRepositoryPort
	limit      int
}

func NewListLeadsUseCase(leads port.LeadRepositoryPort, properties port.PropertyRepositoryPort, limit int) *ListLeadsUseCase {
	if limit <= 0 {
		limit = DefaultLeadsLimit
	}
	return &ListLeadsUseCase{leads: leads, properties: properties, limit: limit}
}

// Execute возвращает последние заявки вместе с краткими данными объявлений.
// Заявки и объявления читаются двумя запросами и соединяются в памяти.
func (uc *ListLeadsUseCase) Execute(ctx context.Context) ([]domain.LeadWithProperty, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ListLeads",
		"limit":    uc.limit,
	})
	ucLogger.Info("Use case started", nil)

	leads, err := uc.leads.ListRecent(ctx, uc.limit)
	if err != nil {
		ucLogger.Error("Failed to list leads", err, nil)
		return nil, domain.NewStoreError("list leads", err)
	}
	if len(leads) == 0 {
		ucLogger.Info("No leads found", nil)
		return []domain.LeadWithProperty{}, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(leads))
	ids := make([]uuid.UUID, 0, len(leads))
	for _, l := range leads {
		if _, ok := seen[l.PropertyID]; ok {
			continue
		}
		seen[l.PropertyID] = struct{}{}
		ids = append(ids, l.PropertyID)
	}

	summaries, err := uc.properties.FindSummariesByIDs(ctx, ids)
	if err != nil {
		ucLogger.Error("Failed to load property summaries", err, nil)
		return nil, domain.NewStoreError("load property summaries", err)
	}
	byID := make(map[uuid.UUID]domain.PropertySummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}

	rows := make([]domain.LeadWithProperty, 0, len(leads))
	unmatched := 0
	for _, l := range leads {
		row := domain.LeadWithProperty{Lead: l}
		if s, ok := byID[l.PropertyID]; ok {
			summary := s
			row.Property = &summary
		} else {
			unmatched++
		}
		rows = append(rows, row)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"leads":     len(rows),
		"unmatched": unmatched,
	})
	return rows, nil
}
