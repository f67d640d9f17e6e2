package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"barstock/internal/logger"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys published on the ledger exchange.
const (
	ItemEdited       = "item.edited"
	CentralRecompute = "central.recomputed"
	PricePropagated  = "price.propagated"
	PurchaseRecorded = "purchase.recorded"
	SalesImported    = "sales.imported"
	LocationCreated  = "location.created"
	LocationRenamed  = "location.renamed"
	LocationDeleted  = "location.deleted"
)

const DefaultExchange = "barstock.events"

// Event is the envelope every message carries.
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh id.
func NewEvent(eventType, source, correlationID string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          raw,
	}, nil
}

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends ledger events to a RabbitMQ topic exchange.
// A nil *Publisher is valid and drops everything.
type Publisher struct {
	conn     io.Closer
	channel  channel
	exchange string
	source   string
	logger   *logger.Logger
}

// Dial connects to the broker and declares the exchange.
func Dial(url, exchange string, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	p, err := newPublisher(ch, exchange, log)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, log *logger.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Publisher{
		channel:  ch,
		exchange: exchange,
		source:   "barstock",
		logger:   log.WithComponent("events"),
	}, nil
}

// Close releases the channel and connection. The connection is closed even
// when closing the channel fails.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	err := p.channel.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}

// Publish sends one event. Failures are logged, never returned: the ledger
// has already committed by the time an event goes out.
func (p *Publisher) Publish(ctx context.Context, eventType string, data any) {
	if p == nil {
		return
	}
	correlationID := CorrelationID(ctx)
	event, err := NewEvent(eventType, p.source, correlationID, data)
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to build event")
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event")
		return
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			CorrelationId: correlationID,
			MessageId:     event.ID,
			Timestamp:     event.Timestamp,
			Body:          body,
		},
	)
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to publish event")
		return
	}
	p.logger.Debug().
		Str("event_type", eventType).
		Str("event_id", event.ID).
		Str("correlation_id", correlationID).
		Msg("event published")
}

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// WithCorrelationID adds a correlation ID to the context
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// CorrelationID retrieves the correlation ID from context
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}
