package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/felixgeelhaar/circadia/internal/shared/domain"
)

// ExchangeName is the topic exchange all domain events go through.
const ExchangeName = "circadia.domain.events"

// RabbitMQPublisher publishes domain events to a RabbitMQ topic exchange.
// The routing key is the event name, so consumers can bind to patterns
// like "schedule.*".
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

type eventEnvelope struct {
	EventName   string      `json:"event_name"`
	AggregateID string      `json:"aggregate_id"`
	OccurredAt  string      `json:"occurred_at"`
	Payload     interface{} `json:"payload"`
}

// NewRabbitMQPublisher connects to the broker and declares the exchange.
func NewRabbitMQPublisher(url string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &RabbitMQPublisher{conn: conn, channel: channel, logger: logger}, nil
}

// Publish sends the event as a persistent JSON message.
func (p *RabbitMQPublisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(eventEnvelope{
		EventName:   event.EventName(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt().Format("2006-01-02T15:04:05Z07:00"),
		Payload:     event,
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventName(), err)
	}

	err = p.channel.PublishWithContext(ctx,
		ExchangeName,
		event.EventName(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event %s: %w", event.EventName(), err)
	}

	p.logger.Debug("event published",
		"event", event.EventName(),
		"aggregate_id", event.AggregateID(),
	)
	return nil
}

// Close releases the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return fmt.Errorf("close channel: %w", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close connection: %w", err)
		}
	}
	return nil
}

var _ Publisher = (*RabbitMQPublisher)(nil)
