// Command kitctl runs catalog maintenance tasks against the database:
// migrations, spreadsheet imports and account creation.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/edvin/kitcatalog/internal/config"
	"github.com/edvin/kitcatalog/internal/db"
	"github.com/edvin/kitcatalog/internal/logging"
)

var timeout time.Duration

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kitctl",
		Short:         "Kit catalog maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Timeout for database operations")

	root.AddCommand(newMigrateCmd(), newImportCmd(), newCreateUserCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment the same way the server does.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, zerolog.Nop(), fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, logging.NewLogger(cfg), nil
}

func connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	return db.NewCatalogPool(ctx, cfg.DatabaseURL)
}
