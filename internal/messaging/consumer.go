package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-staffing/internal/logger"
)

// MessageHandler processes one delivery body
type MessageHandler func(ctx context.Context, body []byte) error

// Consumer handles message consumption from RabbitMQ
type Consumer struct {
	conn        *Connection
	logger      *logger.Logger
	queueName   string
	consumerTag string
	prefetch    int
}

// NewConsumer creates a new message consumer
func NewConsumer(conn *Connection, log *logger.Logger, queueName, consumerTag string, prefetch int) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		queueName:   queueName,
		consumerTag: consumerTag,
		prefetch:    prefetch,
	}
}

// StartConsuming consumes until ctx is done, reconnecting when the
// delivery channel closes
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	for {
		err := c.consume(ctx, handler)
		if err == nil || ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Error("consumer_channel_closed", "Message channel closed, attempting to reconnect", "", err, nil)
		if err := c.conn.Reconnect(ctx); err != nil {
			return fmt.Errorf("failed to reconnect after channel closed: %w", err)
		}
	}
}

func (c *Consumer) consume(ctx context.Context, handler MessageHandler) error {
	if c.conn.IsClosed() {
		if err := c.conn.Reconnect(ctx); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	ch := c.conn.Channel()
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		c.queueName,   // queue
		c.consumerTag, // consumer
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("consumer_started",
		fmt.Sprintf("Started consuming from queue %s", c.queueName),
		"", map[string]interface{}{
			"queue":    c.queueName,
			"consumer": c.consumerTag,
			"prefetch": c.prefetch,
		})

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer_stopped", "Consumer stopped by context", "", nil)
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", c.queueName)
			}
			c.processMessage(ctx, d, handler)
		}
	}
}

// processMessage acks on success; malformed bodies are dropped, other
// failures are requeued once
func (c *Consumer) processMessage(ctx context.Context, delivery amqp091.Delivery, handler MessageHandler) {
	startTime := time.Now()

	processingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := handler(processingCtx, delivery.Body)
	fields := map[string]interface{}{
		"queue":        c.queueName,
		"routing_key":  delivery.RoutingKey,
		"duration_ms":  time.Since(startTime).Milliseconds(),
		"delivery_tag": delivery.DeliveryTag,
	}

	if err == nil {
		c.logger.Debug("message_processed", "Successfully processed message", delivery.CorrelationId, fields)
		if ackErr := delivery.Ack(false); ackErr != nil {
			c.logger.Error("message_ack_failed", "Failed to ack message", delivery.CorrelationId, ackErr, nil)
		}
		return
	}

	c.logger.Error("message_processing_failed", "Failed to process message", delivery.CorrelationId, err, fields)

	requeue := !delivery.Redelivered && !isMalformed(err)
	if nackErr := delivery.Nack(false, requeue); nackErr != nil {
		c.logger.Error("message_nack_failed", "Failed to nack message", delivery.CorrelationId, nackErr, nil)
	}
}

// ErrMalformed marks a body that can never be processed
type ErrMalformed struct {
	Err error
}

func (e *ErrMalformed) Error() string { return "malformed message: " + e.Err.Error() }
func (e *ErrMalformed) Unwrap() error { return e.Err }

func isMalformed(err error) bool {
	var malformed *ErrMalformed
	return errors.As(err, &malformed)
}

// ParseMessage decodes a JSON body into v, wrapping failures as ErrMalformed
func ParseMessage(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &ErrMalformed{Err: err}
	}
	return nil
}

// Close cancels the consumer and closes the connection
func (c *Consumer) Close() error {
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Channel().Cancel(c.consumerTag, false); err != nil {
			c.logger.Error("consumer_cancel_failed", "Failed to cancel consumer", "", err, nil)
		}
		return c.conn.Close()
	}
	return nil
}
