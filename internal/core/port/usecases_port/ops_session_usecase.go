package usecases_port

import (
	"context"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
)

type OpsLoginUseCasePort interface {
	Execute(ctx context.Context, email, password string) (string, *domain.OpsSession, error)
}

type OpsLogoutUseCasePort interface {
	Execute(ctx context.Context, token string) error
}
