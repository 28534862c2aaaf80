// Package events publishes booking lifecycle events to a RabbitMQ topic
// exchange so downstream systems (dispatch, CRM) can pick up confirmed moves.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/mygoodmovers/movebot/internal/slots"
)

// RoutingKeyBookingConfirmed routes confirmed-booking envelopes.
const RoutingKeyBookingConfirmed = "booking.confirmed"

// BookingConfirmed is the envelope published when a user confirms a move.
type BookingConfirmed struct {
	ConversationID string    `json:"conversation_id"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	MoveSize       string    `json:"move_size"`
	MoveDate       string    `json:"move_date"`
	Services       []string  `json:"additional_services,omitempty"`
	ContactName    string    `json:"contact_name"`
	ContactPhone   string    `json:"contact_phone"`
	ContactEmail   string    `json:"contact_email"`
	CostMin        *float64  `json:"cost_min,omitempty"`
	CostMax        *float64  `json:"cost_max,omitempty"`
	ConfirmedAt    time.Time `json:"confirmed_at"`
}

// Publisher emits booking events.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, conversationID string, s slots.MoveSlots) error
	Close() error
}

type rmqPublisher struct {
	conn     *amqp091.Connection
	exchange string
	logger   *slog.Logger
}

// New connects to RabbitMQ and declares the topic exchange.
func New(log *slog.Logger, url, exchange string) (Publisher, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &rmqPublisher{
		conn:     conn,
		exchange: exchange,
		logger:   log.With(slog.String("service", "events")),
	}, nil
}

func (p *rmqPublisher) PublishBookingConfirmed(ctx context.Context, conversationID string, s slots.MoveSlots) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(BookingConfirmed{
		ConversationID: conversationID,
		Origin:         s.Origin,
		Destination:    s.Destination,
		MoveSize:       s.MoveSize,
		MoveDate:       s.MoveDate,
		Services:       s.Services,
		ContactName:    s.ContactName,
		ContactPhone:   s.ContactPhone,
		ContactEmail:   s.ContactEmail,
		CostMin:        s.CostMin,
		CostMax:        s.CostMax,
		ConfirmedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	err = ch.PublishWithContext(
		ctx, p.exchange, RoutingKeyBookingConfirmed, false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish booking event: %w", err)
	}
	p.logger.Info("booking event published",
		slog.String("key", RoutingKeyBookingConfirmed),
		slog.String("conversation_id", conversationID),
	)
	return nil
}

func (p *rmqPublisher) Close() error {
	return p.conn.Close()
}

// NoopPublisher is used when RabbitMQ is not configured. Turns never fail on
// event delivery.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoop creates a publisher that logs and drops every event.
func NewNoop(log *slog.Logger) Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &NoopPublisher{logger: log.With(slog.String("service", "events"))}
}

func (p *NoopPublisher) PublishBookingConfirmed(_ context.Context, conversationID string, _ slots.MoveSlots) error {
	p.logger.Warn("event publishing disabled, booking event dropped",
		slog.String("conversation_id", conversationID))
	return nil
}

func (p *NoopPublisher) Close() error { return nil }
