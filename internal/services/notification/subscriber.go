package notification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"restaurant-staffing/internal/logger"
	"restaurant-staffing/internal/messaging"
	"restaurant-staffing/internal/models"
)

// Consumer delivers message bodies to a handler until ctx is done
type Consumer interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// Subscriber prints human-readable staff notifications
type Subscriber struct {
	consumer Consumer
	logger   *logger.Logger
	out      io.Writer
}

// NewSubscriber creates a new notification subscriber writing to stdout
func NewSubscriber(consumer Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
		out:      os.Stdout,
	}
}

// Start consumes notifications until ctx is cancelled
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	err := s.consumer.StartConsuming(ctx, s.handleNotification)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("consumer_failed", "Notification consumer failed", requestID, err, nil)
		return err
	}

	s.logger.Info("graceful_shutdown", "Notification subscriber stopped", requestID, nil)
	if closeErr := s.consumer.Close(); closeErr != nil {
		s.logger.Error("consumer_close_failed", "Failed to close consumer", requestID, closeErr, nil)
	}
	return nil
}

func (s *Subscriber) handleNotification(ctx context.Context, body []byte) error {
	var event models.StaffEvent
	if err := messaging.ParseMessage(body, &event); err != nil {
		return fmt.Errorf("failed to parse notification: %w", err)
	}

	s.logger.Debug("notification_received", "Received staff event", event.RequestID, map[string]interface{}{
		"type":        event.Type,
		"employee_id": event.EmployeeID,
	})

	if _, err := fmt.Fprintln(s.out, formatNotification(&event)); err != nil {
		return err
	}

	s.logger.Info("notification_displayed", "Notification displayed", event.RequestID, map[string]interface{}{
		"type":          event.Type,
		"employee_id":   event.EmployeeID,
		"restaurant_id": event.RestaurantID,
		"timestamp":     event.Timestamp.Format("2006-01-02 15:04:05"),
	})
	return nil
}

// formatNotification renders one line per event
func formatNotification(e *models.StaffEvent) string {
	ts := e.Timestamp.Format("2006-01-02 15:04:05")

	switch e.Type {
	case models.EventStatementSubmitted:
		return fmt.Sprintf("[%s] New %s statement from %s.", ts, e.Role, e.EmployeeName)
	case models.EventStatementAccepted:
		return fmt.Sprintf("[%s] %s joined restaurant %d as %s. Headcount: %d.",
			ts, e.EmployeeName, e.RestaurantID, e.Role, e.Headcount)
	case models.EventStatementRemoved:
		return fmt.Sprintf("[%s] Statement of %s was removed (%s).", ts, e.EmployeeName, e.Reason)
	case models.EventWaiterHired:
		return fmt.Sprintf("[%s] Waiter %s hired at restaurant %d. Headcount: %d.",
			ts, e.EmployeeName, e.RestaurantID, e.Headcount)
	case models.EventWaiterUpdated:
		return fmt.Sprintf("[%s] Waiter %s updated their profile.", ts, e.EmployeeName)
	case models.EventWaiterDismissed:
		return fmt.Sprintf("[%s] Waiter %s left restaurant %d. Headcount: %d.",
			ts, e.EmployeeName, e.RestaurantID, e.Headcount)
	case models.EventChequeCreated:
		return fmt.Sprintf("[%s] Cheque %d opened by %s.", ts, e.ChequeID, e.EmployeeName)
	case models.EventChequeUpdated:
		return fmt.Sprintf("[%s] Cheque %d updated by %s.", ts, e.ChequeID, e.EmployeeName)
	case models.EventChequeDeleted:
		return fmt.Sprintf("[%s] Cheque %d deleted by %s.", ts, e.ChequeID, e.EmployeeName)
	default:
		return fmt.Sprintf("[%s] %s event for employee %d.", ts, e.Type, e.EmployeeID)
	}
}
