package port

import (
	"context"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
)

// EventPublisherPort публикует доменные события.
type EventPublisherPort interface {
	Publish(ctx context.Context, event domain.Event) error
}
