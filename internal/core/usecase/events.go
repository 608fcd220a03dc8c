package usecase

import (
	"context"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"
)

// publishEvent публикует событие после фиксации записи. Ошибка не отменяет операцию.
func publishEvent(ctx context.Context, events port.EventPublisherPort, event domain.Event) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, event); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Failed to publish domain event", port.Fields{
			"event_type":  event.EventType(),
			"routing_key": event.RoutingKey(),
			"error":       err.Error(),
		})
	}
}
