package rabbitmq_producer

import (
	"context"
	"fmt"
	"sync"

	"github.com/aatrips/Verified-land-marketplace/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig конфигурация для производителя
type PublisherConfig struct {
	ExchangeName       string     // пустая строка - default exchange
	ExchangeType       string     // direct, fanout, topic, headers
	DurableExchange    bool
	AutoDeleteExchange bool
	ExchangeArgs       amqp.Table

	// false - обменник должен уже существовать
	DeclareExchangeIfMissing bool

	Logger rabbitmq_common.Logger
}

func (c PublisherConfig) validate() error {
	if c.DeclareExchangeIfMissing && c.ExchangeName == "" {
		return fmt.Errorf("producer: exchange name is required when DeclareExchangeIfMissing is true")
	}
	if c.DeclareExchangeIfMissing && c.ExchangeType == "" {
		return fmt.Errorf("producer: exchange type is required when DeclareExchangeIfMissing is true")
	}
	return nil
}

// Publisher публикует сообщения через канал общего соединения.
// Закрытый канал открывается заново при следующей публикации.
type Publisher struct {
	config  PublisherConfig
	manager *rabbitmq_common.ConnectionManager

	mu      sync.Mutex
	channel *amqp.Channel

	Logger rabbitmq_common.Logger
}

func NewPublisher(cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	if connManager == nil {
		return nil, fmt.Errorf("producer: connection manager cannot be nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	p := &Publisher{
		config:  cfg,
		manager: connManager,
		Logger:  logger,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.ensureChannel(); err != nil {
		return nil, err
	}

	p.Logger.Debug("Publisher is ready", "exchange", cfg.ExchangeName)
	return p, nil
}

// ensureChannel вызывается под p.mu.
func (p *Publisher) ensureChannel() (*amqp.Channel, error) {
	if p.channel != nil && !p.channel.IsClosed() {
		return p.channel, nil
	}

	_, ch, err := p.manager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("producer: failed to get channel from manager: %w", err)
	}

	if p.config.DeclareExchangeIfMissing {
		p.Logger.Debug("Declaring exchange", "name", p.config.ExchangeName, "type", p.config.ExchangeType)
		err = ch.ExchangeDeclare(
			p.config.ExchangeName,
			p.config.ExchangeType,
			p.config.DurableExchange,
			p.config.AutoDeleteExchange,
			false, // internal
			false, // no-wait
			p.config.ExchangeArgs,
		)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("producer: failed to declare exchange '%s': %w", p.config.ExchangeName, err)
		}
	}

	p.channel = ch
	return ch, nil
}

// Publish публикует сообщение в обменник из конфигурации.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.ensureChannel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg)
	if err != nil {
		return fmt.Errorf("producer: failed to publish message: %w", err)
	}
	return nil
}

// Close закрывает канал. Соединение принадлежит ConnectionManager.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil {
		p.Logger.Error(err, "Error closing channel")
		return err
	}
	p.Logger.Info("Producer closed.")
	return nil
}
