package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-staffing/internal/logger"
	"restaurant-staffing/internal/models"
)

const publishTimeout = 10 * time.Second

// Publisher publishes staff events to RabbitMQ
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new message publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishEvent publishes a persistent event routed by its type
func (p *Publisher) PublishEvent(ctx context.Context, event *models.StaffEvent) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(ctx); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	publishing, err := newPublishing(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		StaffEventsExchange, // exchange
		event.RoutingKey(),  // routing key
		false,               // mandatory
		false,               // immediate
		publishing,
	)
	if err != nil {
		p.logger.Error("message_publish_failed",
			fmt.Sprintf("Failed to publish message to exchange %s", StaffEventsExchange),
			event.RequestID, err, map[string]interface{}{
				"routing_key": event.RoutingKey(),
			})
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug("message_published",
		fmt.Sprintf("Published message to exchange %s", StaffEventsExchange),
		event.RequestID, map[string]interface{}{
			"routing_key":  event.RoutingKey(),
			"message_size": len(publishing.Body),
		})

	return nil
}

func newPublishing(event *models.StaffEvent) (amqp091.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("failed to marshal message: %w", err)
	}

	return amqp091.Publishing{
		ContentType:   "application/json",
		Body:          body,
		DeliveryMode:  amqp091.Persistent,
		Timestamp:     event.Timestamp,
		Type:          string(event.Type),
		CorrelationId: event.RequestID,
	}, nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	return p.conn.Close()
}

// NopPublisher drops events; used when RabbitMQ is disabled
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, *models.StaffEvent) error { return nil }
