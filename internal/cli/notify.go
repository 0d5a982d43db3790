package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"restaurant-staffing/internal/logger"
	"restaurant-staffing/internal/messaging"
	"restaurant-staffing/internal/services/notification"
)

// NotifyOptions holds flags for the notify command
type NotifyOptions struct {
	Prefetch int
}

// NewNotifyCommand creates the notify command.
func NewNotifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NotifyOptions{}

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Print staff and cheque events as they are published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotify(cmd.Context(), rootOpts, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Prefetch, "prefetch", 10, "RabbitMQ prefetch count")

	return cmd
}

func runNotify(ctx context.Context, rootOpts *RootOptions, opts *NotifyOptions) error {
	cfg, log, err := setup(rootOpts, "notification-subscriber")
	if err != nil {
		return err
	}
	if !cfg.RabbitMQ.Enabled {
		return errors.New("notify requires rabbitmq.enabled")
	}
	if opts.Prefetch <= 0 {
		return fmt.Errorf("invalid prefetch: %d", opts.Prefetch)
	}

	conn, err := messaging.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	log.Info("rabbitmq_connected", "Connected to RabbitMQ", logger.GenerateRequestID(), nil)

	hostname, _ := os.Hostname()
	consumer := messaging.NewConsumer(conn, log, messaging.NotificationsQueue, "notify-"+hostname, opts.Prefetch)

	return notification.NewSubscriber(consumer, log).Start(ctx)
}
