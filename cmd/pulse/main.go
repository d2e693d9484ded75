package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobmcallan/pulse/internal/app"
	"github.com/bobmcallan/pulse/internal/common"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: PULSE_CONFIG or config/pulse.toml)")
	importPositions := flag.String("import-positions", "", "import a holdings CSV and exit")
	importWatchlist := flag.String("import-watchlist", "", "import a watchlist CSV and exit")
	dryRun := flag.Bool("dry-run", false, "generate the report without sending email")
	flag.Parse()

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if *importPositions != "" || *importWatchlist != "" {
		if *importPositions != "" {
			if err := a.ImportPositions(*importPositions, "positions"); err != nil {
				a.Logger.Error().Err(err).Msg("Position import failed")
				os.Exit(1)
			}
		}
		if *importWatchlist != "" {
			if err := a.ImportPositions(*importWatchlist, "watchlist"); err != nil {
				a.Logger.Error().Err(err).Msg("Watchlist import failed")
				os.Exit(1)
			}
		}
		return
	}

	common.PrintBanner(a.Config, a.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Cancel the run on interrupt so a partial pipeline stops cleanly.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		a.Logger.Warn().Msg("Interrupt received, cancelling run")
		cancel()
	}()

	if err := a.Run(ctx, *dryRun); err != nil {
		a.Logger.Error().Err(err).Msg("Pulse run failed")
		a.Close()
		os.Exit(1)
	}

	a.Logger.Info().Msg("Pulse run complete")
}
