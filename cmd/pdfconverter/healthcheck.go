package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pdf-converter/internal/probe"
	"pdf-converter/pkg/logger"
)

var (
	healthcheckURL      string
	healthcheckTimeout  time.Duration
	healthcheckWatch    bool
	healthcheckInterval time.Duration
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Probe the service health endpoint",
	Long: `Probe GET /health/ once and exit 0 when the service is healthy, 1 otherwise.

This is the command the container HEALTHCHECK directive runs every 30 seconds.
With --watch it instead polls continuously, tracking the aggregated state
(starting, healthy, unhealthy) the way a container supervisor would: unhealthy
after 3 consecutive failures, healthy again on the first success.`,
	RunE: runHealthcheck,
}

func init() {
	healthcheckCmd.Flags().StringVar(&healthcheckURL, "url", "http://localhost:8000/health/", "health endpoint URL")
	healthcheckCmd.Flags().DurationVar(&healthcheckTimeout, "timeout", probe.DefaultTimeout, "per-attempt timeout")
	healthcheckCmd.Flags().BoolVar(&healthcheckWatch, "watch", false, "poll continuously and log state transitions")
	healthcheckCmd.Flags().DurationVar(&healthcheckInterval, "interval", probe.DefaultInterval, "poll interval with --watch")
	rootCmd.AddCommand(healthcheckCmd)
}

func runHealthcheck(cmd *cobra.Command, args []string) error {
	if !healthcheckWatch {
		if err := probe.Check(context.Background(), healthcheckURL, healthcheckTimeout); err != nil {
			// The HEALTHCHECK directive turns the non-zero exit into
			// container-level unhealthy state.
			return fmt.Errorf("unhealthy: %w", err)
		}
		fmt.Println("healthy")
		return nil
	}

	appLogger := logger.NewLogger("info")
	prober := probe.NewProber(healthcheckURL, appLogger)
	prober.Interval = healthcheckInterval
	prober.Timeout = healthcheckTimeout

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	prober.Run(ctx)
	return nil
}
