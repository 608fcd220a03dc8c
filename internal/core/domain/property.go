package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// VerificationState - нормализованное состояние проверки объявления.
type VerificationState string

const (
	VerificationPending  VerificationState = "PENDING"
	VerificationVerified VerificationState = "VERIFIED"
)

// VerificationFromColumn приводит nullable-колонку verification к состоянию.
// NULL и false дают PENDING.
func VerificationFromColumn(verification *bool) VerificationState {
	if verification != nil && *verification {
		return VerificationVerified
	}
	return VerificationPending
}

func (v VerificationState) IsVerified() bool {
	return v == VerificationVerified
}

// Property - объявление о продаже участка.
type Property struct {
	ID           uuid.UUID
	Title        string
	Description  *string
	City         string
	State        string
	Pincode      *string
	Price        *float64
	HeroURL      *string
	Verification VerificationState
	// LegacyStatus - старое текстовое поле status, только для чтения.
	LegacyStatus *string
	CreatedAt    time.Time
}

// PropertySummary - краткие данные объявления для панели лидов.
type PropertySummary struct {
	ID           uuid.UUID
	Title        string
	City         string
	State        string
	Verification VerificationState
}

func (p *Property) Summary() PropertySummary {
	return PropertySummary{
		ID:           p.ID,
		Title:        p.Title,
		City:         p.City,
		State:        p.State,
		Verification: p.Verification,
	}
}

// PropertyDetails - объявление вместе с галереей.
type PropertyDetails struct {
	Property Property
	Images   []PropertyImage
}

// SortKey - порядок выдачи каталога.
type SortKey string

const (
	SortNewest    SortKey = "new"
	SortOldest    SortKey = "old"
	SortPriceAsc  SortKey = "priceAsc"
	SortPriceDesc SortKey = "priceDesc"
)

// ParseSortKey возвращает SortNewest для пустого или неизвестного значения.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortOldest, SortPriceAsc, SortPriceDesc:
		return SortKey(raw)
	default:
		return SortNewest
	}
}

// PropertyFilters - фильтры каталога.
type PropertyFilters struct {
	City         string
	VerifiedOnly bool
	Sort         SortKey
}

// NormalizedCity возвращает город для поиска подстроки без учета регистра.
func (f PropertyFilters) NormalizedCity() string {
	return strings.ToLower(strings.TrimSpace(f.City))
}

type PaginatedProperties struct {
	Properties   []Property
	TotalCount   int
	CurrentPage  int
	ItemsPerPage int
}
