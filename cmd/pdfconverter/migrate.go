package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pdf-converter/internal/config"
	"pdf-converter/internal/repository"
	"pdf-converter/internal/service"
	"pdf-converter/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and seed the pricing table",
	Long: `Apply all pending schema migrations, then install the pricing table.

The command is idempotent and safe to run on every container start. When
PRICING_FILE points to a YAML file its entries replace the built-in pricing
defaults.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appLogger := logger.NewLogger(cfg.LogLevel)

	store, err := repository.Open(cfg.DatabaseURL, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	version, err := store.Version(ctx)
	if err != nil {
		return err
	}
	appLogger.Info("Migrations applied", "version", version, "dialect", string(store.Dialect()))

	if err := service.SeedPricing(ctx, repository.NewPricingRepository(store), cfg.PricingFile, appLogger); err != nil {
		return fmt.Errorf("seed pricing: %w", err)
	}
	appLogger.Info("Pricing table seeded")
	return nil
}
