package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"pdf-converter/internal/config"
	"pdf-converter/internal/handler"
)

// staleAfterHours is how long failed or never-finished documents are kept
// before the cleanup job removes them and their files.
const staleAfterHours = 24

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the long-running HTTP service process.

The server binds HOST:PORT (default 0.0.0.0:8000) and serves the conversion
API, collected static files and the /health/ liveness endpoint. Configuration
is read exactly once at start; a missing SECRET_KEY in a non-debug run aborts
before the port is bound.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	container, err := config.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer container.Close()

	router := handler.NewRouter(container)

	// Hourly cleanup of stale conversions keeps the media volume bounded.
	scheduler := cron.New()
	_, err = scheduler.AddFunc("@hourly", func() {
		n, err := container.DocumentService.CleanupStale(context.Background(), staleAfterHours)
		if err != nil {
			container.Logger.Error("Stale document cleanup failed", err)
			return
		}
		if n > 0 {
			container.Logger.Info("Cleaned up stale documents", "count", n)
		}
	})
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    container.Config.GetServerAddr(),
		Handler: router,
	}

	go func() {
		container.Logger.Info("Server listening", "address", server.Addr,
			"workers", container.Config.Workers, "debug", container.Config.Debug)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		container.Logger.Warn("Forced shutdown", "error", err)
		_ = server.Close()
	}

	container.Logger.Info("Server exited")
	return nil
}
