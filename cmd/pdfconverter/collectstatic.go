package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pdf-converter/internal/config"
	"pdf-converter/internal/service"
	"pdf-converter/pkg/logger"
)

var collectstaticClear bool

var collectstaticCmd = &cobra.Command{
	Use:   "collectstatic",
	Short: "Stage static assets into the serving directory",
	Long: `Copy the bundled static assets from STATIC_SOURCE into STATIC_ROOT.

The command is idempotent and exits non-zero on failure. Build recipes that
want the historical best-effort behavior chain it with '|| true'.`,
	RunE: runCollectstatic,
}

func init() {
	collectstaticCmd.Flags().BoolVar(&collectstaticClear, "clear", false, "empty STATIC_ROOT before collecting")
	rootCmd.AddCommand(collectstaticCmd)
}

func runCollectstatic(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appLogger := logger.NewLogger(cfg.LogLevel)

	collector := service.NewStaticCollector(cfg.StaticSource, cfg.StaticRoot, appLogger)
	copied, err := collector.Collect(collectstaticClear)
	if err != nil {
		return fmt.Errorf("collectstatic: %w", err)
	}
	fmt.Printf("%d static files copied to %s\n", copied, cfg.StaticRoot)
	return nil
}
