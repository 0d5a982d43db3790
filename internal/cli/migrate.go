package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"restaurant-staffing/internal/logger"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(cmd.Context(), rootOpts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func runMigrate(ctx context.Context, opts *RootOptions) error {
	cfg, log, err := setup(opts, "restaurant-migrate")
	if err != nil {
		return err
	}

	requestID := logger.GenerateRequestID()
	st, _, err := openStore(ctx, cfg, log, requestID)
	if err != nil {
		return err
	}
	return st.Close()
}
