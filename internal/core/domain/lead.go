package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead - заявка покупателя по объявлению. Статусов у заявки нет.
type Lead struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	FullName   string
	Phone      string
	CreatedAt  time.Time
}

// LeadWithProperty - заявка с данными объявления.
// Property == nil, если объявление с таким id не найдено.
type LeadWithProperty struct {
	Lead     Lead
	Property *PropertySummary
}
