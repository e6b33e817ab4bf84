package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Rebalancer/internal/config"
	"github.com/Alias1177/Rebalancer/internal/dataset"
	"github.com/Alias1177/Rebalancer/internal/recommend"
)

func main() {
	requestID := flag.String("request", "", "rebalance request identifier (required)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)

	if *requestID == "" {
		log.Fatal().Msg("-request is required")
	}

	engine, err := recommend.NewEngine(dataset.NewFileSource(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize engine")
	}

	report, err := engine.HoldingsReport(*requestID)
	if err != nil {
		log.Fatal().Err(err).Str("request_id", *requestID).Msg("Holdings report failed")
	}

	fmt.Printf("Request %s: %d accounts matched\n", report.RequestID, report.MatchedAccounts)

	ids := make([]string, 0, len(report.AccountHoldings))
	for id := range report.AccountHoldings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		holdings := report.AccountHoldings[id]
		fmt.Printf("\nAccount: %s (positions: %d, total: $%s)\n",
			id, holdings.PositionCount, holdings.TotalValue.StringFixed(2))
		for _, p := range holdings.Positions {
			fmt.Printf("  %s - %d shares @ $%s = $%s\n",
				p.Ticker, p.Qty, p.Price.String(), p.PositionTotal.String())
		}
	}
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}
