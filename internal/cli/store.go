package cli

import (
	"context"
	"fmt"

	"restaurant-staffing/internal/config"
	"restaurant-staffing/internal/database"
	"restaurant-staffing/internal/logger"
	"restaurant-staffing/internal/server"
	"restaurant-staffing/internal/store"
	"restaurant-staffing/internal/store/postgres"
	"restaurant-staffing/internal/store/sqlite"
)

// openStore connects the configured backend and brings its schema up to date
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger, requestID string) (store.Store, server.HealthCheck, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.New(ctx, cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return postgres.New(db), db.Ping, nil

	case config.DriverSQLite:
		st, err := sqlite.Open(cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		log.Info("db_connected", "Opened SQLite database", requestID, map[string]interface{}{
			"path": cfg.Database.SQLitePath,
		})
		return st, st.DB().PingContext, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver: %q", cfg.Database.Driver)
	}
}
