package audit

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"restaurant-staffing/internal/logger"
	"restaurant-staffing/internal/messaging"
	"restaurant-staffing/internal/models"
	"restaurant-staffing/internal/store"
)

// Consumer delivers message bodies to a handler until ctx is done
type Consumer interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
	Close() error
}

// Worker re-prices cheques named by cheque events and logs the result
type Worker struct {
	name              string
	heartbeatInterval time.Duration

	users       store.Users
	restaurants store.Restaurants
	cheques     store.Cheques
	consumer    Consumer
	logger      *logger.Logger

	processed atomic.Int64
}

// NewWorker creates a new cheque audit worker
func NewWorker(name string, heartbeatInterval time.Duration, st store.Store, consumer Consumer, log *logger.Logger) *Worker {
	return &Worker{
		name:              name,
		heartbeatInterval: heartbeatInterval,
		users:             st.Users(),
		restaurants:       st.Restaurants(),
		cheques:           st.Cheques(),
		consumer:          consumer,
		logger:            log,
	}
}

// Start consumes cheque events until ctx is cancelled
func (w *Worker) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	w.logger.Info("worker_started", fmt.Sprintf("Cheque audit worker %s started", w.name), requestID, map[string]interface{}{
		"worker_name":        w.name,
		"heartbeat_interval": w.heartbeatInterval.Seconds(),
	})

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	if w.heartbeatInterval > 0 {
		go w.heartbeatLoop(hbCtx)
	}

	err := w.consumer.StartConsuming(ctx, w.handleMessage)
	if err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Error("consumer_failed", "Cheque audit consumer failed", requestID, err, nil)
		return err
	}

	w.logger.Info("graceful_shutdown", "Cheque audit worker stopped", requestID, map[string]interface{}{
		"processed": w.processed.Load(),
	})
	if closeErr := w.consumer.Close(); closeErr != nil {
		w.logger.Error("consumer_close_failed", "Failed to close consumer", requestID, closeErr, nil)
	}
	return nil
}

// Processed returns the number of events handled so far
func (w *Worker) Processed() int64 {
	return w.processed.Load()
}

func (w *Worker) handleMessage(ctx context.Context, body []byte) error {
	var event models.StaffEvent
	if err := messaging.ParseMessage(body, &event); err != nil {
		return fmt.Errorf("failed to parse cheque event: %w", err)
	}

	var err error
	switch event.Type {
	case models.EventChequeCreated, models.EventChequeUpdated:
		err = w.auditCheque(ctx, &event)
	case models.EventChequeDeleted:
		err = w.auditDeletion(ctx, &event)
	default:
		w.logger.Debug("event_ignored", "Not a cheque event", event.RequestID, map[string]interface{}{
			"type": event.Type,
		})
	}
	if err != nil {
		return err
	}

	w.processed.Add(1)
	return nil
}

// auditCheque loads the cheque as it is now and logs its totals
func (w *Worker) auditCheque(ctx context.Context, event *models.StaffEvent) error {
	cheque, err := w.cheques.FindByID(ctx, event.ChequeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			w.logger.Info("cheque_audit_skipped", "Cheque no longer exists", event.RequestID, map[string]interface{}{
				"cheque_id": event.ChequeID,
				"type":      event.Type,
			})
			return nil
		}
		return fmt.Errorf("load cheque %d: %w", event.ChequeID, err)
	}

	waiter, err := w.users.FindByID(ctx, cheque.WaiterID)
	if err != nil {
		return fmt.Errorf("load waiter %d: %w", cheque.WaiterID, err)
	}
	service, err := store.ServiceCharge(ctx, w.restaurants, waiter)
	if err != nil {
		return err
	}

	totals, err := models.PriceCheque(cheque.Items, service)
	if err != nil {
		return err
	}

	w.logger.Info("cheque_audited", fmt.Sprintf("Cheque %d audited", cheque.ID), event.RequestID, map[string]interface{}{
		"cheque_id":   cheque.ID,
		"waiter_id":   cheque.WaiterID,
		"type":        event.Type,
		"items":       len(cheque.Items),
		"raw_total":   models.FormatDecimal(totals.Raw),
		"grand_total": models.FormatDecimal(totals.Grand),
		"created_at":  cheque.CreatedAt.Format("2006-01-02"),
	})
	return nil
}

// auditDeletion confirms a deleted cheque is gone
func (w *Worker) auditDeletion(ctx context.Context, event *models.StaffEvent) error {
	_, err := w.cheques.FindByID(ctx, event.ChequeID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		w.logger.Info("cheque_deletion_audited", fmt.Sprintf("Cheque %d deletion confirmed", event.ChequeID), event.RequestID, map[string]interface{}{
			"cheque_id": event.ChequeID,
			"waiter_id": event.EmployeeID,
		})
		return nil
	case err != nil:
		return fmt.Errorf("load cheque %d: %w", event.ChequeID, err)
	default:
		w.logger.Error("cheque_deletion_mismatch", "Deleted cheque is still present", event.RequestID,
			fmt.Errorf("cheque %d still exists", event.ChequeID), map[string]interface{}{
				"cheque_id": event.ChequeID,
			})
		return nil
	}
}

// heartbeatLoop periodically logs the processed count
func (w *Worker) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(w.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.logger.Debug("heartbeat", "Cheque audit worker alive", "", map[string]interface{}{
				"worker_name": w.name,
				"processed":   w.processed.Load(),
			})
		}
	}
}
