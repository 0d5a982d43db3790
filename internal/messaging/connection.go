package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-staffing/internal/config"
	"restaurant-staffing/internal/logger"
)

const (
	// StaffEventsExchange receives every staff and cheque event, routed by event type
	StaffEventsExchange = "staff_events"

	// NotificationsQueue collects all events for the notification subscriber
	NotificationsQueue = "staff_notifications_queue"

	// ChequeAuditQueue keeps only cheque events
	ChequeAuditQueue = "cheque_audit_queue"

	connectAttempts = 5
)

// Connection wraps RabbitMQ connection with reconnection logic
type Connection struct {
	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *logger.Logger
	url     string
}

// New creates a new RabbitMQ connection and declares the topology
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Connection, error) {
	conn := &Connection{
		logger: log,
		url:    cfg.RabbitMQURL(),
	}

	if err := conn.connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	return conn, nil
}

// connect establishes connection to RabbitMQ with retry logic
func (c *Connection) connect(ctx context.Context) error {
	var err error

	for i := 0; i < connectAttempts; i++ {
		c.conn, err = amqp091.Dial(c.url)
		if err == nil {
			c.channel, err = c.conn.Channel()
			if err == nil {
				if setupErr := c.setupTopology(); setupErr != nil {
					c.logger.Error("rabbitmq_setup_failed", "Failed to set up topology", "startup", setupErr, nil)
					c.close()
					err = setupErr
				} else {
					return nil
				}
			} else {
				c.conn.Close()
			}
		}

		if i < connectAttempts-1 {
			waitTime := time.Duration(i+1) * 2 * time.Second
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", waitTime),
				"startup", err, nil)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitTime):
			}
		}
	}

	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", connectAttempts, err)
}

// queueBinding ties a durable queue to the staff events exchange
type queueBinding struct {
	queue      string
	routingKey string
}

// Bindings lists the queues declared on connect and their routing keys
var Bindings = []queueBinding{
	{NotificationsQueue, "statement.*"},
	{NotificationsQueue, "waiter.*"},
	{NotificationsQueue, "cheque.*"},
	{ChequeAuditQueue, "cheque.*"},
}

// setupTopology creates the exchange and queues
func (c *Connection) setupTopology() error {
	err := c.channel.ExchangeDeclare(
		StaffEventsExchange, // name
		"topic",             // type
		true,                // durable
		false,               // auto-deleted
		false,               // internal
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", StaffEventsExchange, err)
	}

	declared := make(map[string]bool)
	for _, binding := range Bindings {
		if !declared[binding.queue] {
			_, err = c.channel.QueueDeclare(
				binding.queue, // name
				true,          // durable
				false,         // delete when unused
				false,         // exclusive
				false,         // no-wait
				amqp091.Table{
					"x-message-ttl": int32(24 * time.Hour / time.Millisecond),
				},
			)
			if err != nil {
				return fmt.Errorf("failed to declare queue %s: %w", binding.queue, err)
			}
			declared[binding.queue] = true
		}

		err = c.channel.QueueBind(
			binding.queue,       // queue name
			binding.routingKey,  // routing key
			StaffEventsExchange, // exchange
			false,               // no-wait
			nil,                 // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to bind queue %s with routing key %s: %w", binding.queue, binding.routingKey, err)
		}
	}

	return nil
}

// Channel returns the current channel
func (c *Connection) Channel() *amqp091.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel
}

// Close closes the connection
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.close()
}

func (c *Connection) close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsClosed checks if the connection is closed
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn == nil || c.conn.IsClosed()
}

// Reconnect attempts to reconnect to RabbitMQ
func (c *Connection) Reconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.close()
	return c.connect(ctx)
}
