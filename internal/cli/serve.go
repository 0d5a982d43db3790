package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"restaurant-staffing/internal/config"
	"restaurant-staffing/internal/logger"
	"restaurant-staffing/internal/messaging"
	"restaurant-staffing/internal/models"
	"restaurant-staffing/internal/server"
	"restaurant-staffing/internal/services/admission"
	"restaurant-staffing/internal/services/order"
	"restaurant-staffing/internal/services/staff"
)

// EventPublisher is the publisher every engine shares
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *models.StaffEvent) error
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts)
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions) error {
	cfg, log, err := setup(opts, "restaurant-api")
	if err != nil {
		return err
	}
	requestID := logger.GenerateRequestID()

	st, health, err := openStore(ctx, cfg, log, requestID)
	if err != nil {
		return err
	}
	defer st.Close()

	publisher, closePublisher, err := openPublisher(ctx, cfg, log, requestID)
	if err != nil {
		return err
	}
	defer closePublisher()

	router := server.NewRouter(log, health,
		admission.NewHandler(admission.NewService(st, publisher, log), log),
		order.NewHandler(order.NewService(st, publisher, log), log),
		staff.NewHandler(staff.NewService(st, publisher, log), log),
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("service_started", fmt.Sprintf("Restaurant API started on %s", srv.Addr), requestID, map[string]interface{}{
			"port":   cfg.Server.Port,
			"driver": cfg.Database.Driver,
			"events": cfg.RabbitMQ.Enabled,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("graceful_shutdown", "Shutting down HTTP server", requestID, nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
	return nil
}

// openPublisher connects to RabbitMQ when enabled and falls back to a
// publisher that drops events otherwise
func openPublisher(ctx context.Context, cfg *config.Config, log *logger.Logger, requestID string) (EventPublisher, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		log.Info("events_disabled", "RabbitMQ disabled, staff events are not published", requestID, nil)
		return messaging.NopPublisher{}, func() {}, nil
	}

	conn, err := messaging.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize messaging: %w", err)
	}
	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	publisher := messaging.NewPublisher(conn, log)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Error("rabbitmq_close_failed", "Failed to close RabbitMQ connection", requestID, err, nil)
		}
	}, nil
}
