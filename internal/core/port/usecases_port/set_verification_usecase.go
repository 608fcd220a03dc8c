package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

type SetVerificationUseCasePort interface {
	Execute(ctx context.Context, propertyID uuid.UUID, verified bool) error
}
