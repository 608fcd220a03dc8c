package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/constants"
	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/contracts"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// messagePublisher - то, что адаптеру нужно от rabbitmq_producer.Publisher.
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// RabbitMQEventPublisher публикует доменные события в обменник listing_events.
// Тело проверяется по JSON-схеме до отправки.
type RabbitMQEventPublisher struct {
	producer messagePublisher
}

func NewRabbitMQEventPublisher(producer messagePublisher) (*RabbitMQEventPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	return &RabbitMQEventPublisher{producer: producer}, nil
}

func (a *RabbitMQEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "RabbitMQEventPublisher",
		"event_type":  event.EventType(),
		"routing_key": event.RoutingKey(),
	})

	body, err := json.Marshal(event)
	if err != nil {
		adapterLogger.Error("Failed to marshal event to JSON", err, nil)
		return fmt.Errorf("failed to marshal %s: %w", event.EventType(), err)
	}

	if err := contracts.ValidateEvent(event.EventType(), event.EventVersion(), body); err != nil {
		adapterLogger.Error("Event does not match its schema", err, nil)
		return fmt.Errorf("invalid %s: %w", event.EventType(), err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			constants.HeaderEventType:    event.EventType(),
			constants.HeaderEventVersion: event.EventVersion(),
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, event.RoutingKey(), msg); err != nil {
		adapterLogger.Error("Failed to publish event", err, nil)
		return fmt.Errorf("failed to publish %s: %w", event.EventType(), err)
	}

	adapterLogger.Debug("Event published", nil)
	return nil
}

// NoopEventPublisher используется при RABBITMQ_ENABLED=false.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	contextkeys.LoggerFromContext(ctx).Debug("Event publishing disabled, dropping event", port.Fields{
		"event_type": event.EventType(),
	})
	return nil
}
