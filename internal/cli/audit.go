package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"restaurant-staffing/internal/logger"
	"restaurant-staffing/internal/messaging"
	"restaurant-staffing/internal/services/audit"
)

// AuditOptions holds flags for the audit command
type AuditOptions struct {
	WorkerName        string
	HeartbeatInterval time.Duration
	Prefetch          int
}

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuditOptions{}

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Re-price cheques from cheque events and log the totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.WorkerName, "worker-name", "", "worker name (defaults to the hostname)")
	cmd.Flags().DurationVar(&opts.HeartbeatInterval, "heartbeat-interval", 30*time.Second, "interval between heartbeat log lines")
	cmd.Flags().IntVar(&opts.Prefetch, "prefetch", 1, "RabbitMQ prefetch count")

	return cmd
}

func runAudit(ctx context.Context, rootOpts *RootOptions, opts *AuditOptions) error {
	cfg, log, err := setup(rootOpts, "cheque-audit")
	if err != nil {
		return err
	}
	if !cfg.RabbitMQ.Enabled {
		return errors.New("audit requires rabbitmq.enabled")
	}
	if opts.Prefetch <= 0 {
		return fmt.Errorf("invalid prefetch: %d", opts.Prefetch)
	}

	name := opts.WorkerName
	if name == "" {
		name, _ = os.Hostname()
	}
	requestID := logger.GenerateRequestID()

	st, _, err := openStore(ctx, cfg, log, requestID)
	if err != nil {
		return err
	}
	defer st.Close()

	conn, err := messaging.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	consumer := messaging.NewConsumer(conn, log, messaging.ChequeAuditQueue, "audit-"+name, opts.Prefetch)
	return audit.NewWorker(name, opts.HeartbeatInterval, st, consumer, log).Start(ctx)
}
