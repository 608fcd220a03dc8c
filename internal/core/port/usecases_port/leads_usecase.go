package usecases_port

import (
	"context"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
)

type CaptureLeadUseCasePort interface {
	Execute(ctx context.Context, lead domain.NewLead) error
}

type ListLeadsUseCasePort interface {
	Execute(ctx context.Context) ([]domain.LeadWithProperty, error)
}
