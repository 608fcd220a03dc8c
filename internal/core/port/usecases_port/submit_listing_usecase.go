package usecases_port

import (
	"context"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"

	"github.com/google/uuid"
)

type SubmitListingUseCasePort interface {
	Execute(ctx context.Context, listing domain.NewListing, images []domain.ImageFile) (uuid.UUID, error)
}
