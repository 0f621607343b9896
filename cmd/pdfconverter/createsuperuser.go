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

var (
	superuserName  string
	superuserEmail string
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an administrator account",
	Long: `Create a superuser account and print its API key.

The key is shown exactly once; only its hash is stored.`,
	RunE: runCreateSuperuser,
}

func init() {
	createSuperuserCmd.Flags().StringVar(&superuserName, "username", "", "username for the new superuser (required)")
	createSuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "email address for the new superuser")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(createSuperuserCmd)
}

func runCreateSuperuser(cmd *cobra.Command, args []string) error {
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

	users := service.NewUserService(repository.NewUserRepository(store), cfg.Secret, appLogger)
	user, apiKey, err := users.Register(ctx, superuserName, superuserEmail, true)
	if err != nil {
		return err
	}

	fmt.Printf("Superuser %q created (id %s)\n", user.Username, user.ID)
	fmt.Printf("API key (shown once): %s\n", apiKey)
	return nil
}
