// Command prewarm populates the per-member report cache for every active
// member ahead of demand. Already-cached members are skipped, so re-running
// it is safe.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/makehaven/yearreview/internal/app"
	"github.com/makehaven/yearreview/internal/config"
	"github.com/makehaven/yearreview/internal/util"
	"go.uber.org/zap"
)

func main() {
	year := flag.Int("year", util.ToShopTime(time.Now()).Year(), "year to pre-calculate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	buildCtx, buildCancel := context.WithTimeout(context.Background(), 30*time.Second)
	container, err := app.Build(buildCtx, cfg, logger)
	buildCancel()
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		os.Exit(1)
	}
	defer container.Close()

	fmt.Printf("Starting pre-calculation for %d...\n", *year)

	processed, err := container.Reports.Prewarm(context.Background(), *year)
	if err != nil {
		logger.Error("Prewarm failed", zap.Int("year", *year), zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Successfully pre-calculated stats for %d members.\n", processed)
}
