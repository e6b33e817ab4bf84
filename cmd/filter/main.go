package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Rebalancer/internal/config"
	"github.com/Alias1177/Rebalancer/internal/dataset"
	"github.com/Alias1177/Rebalancer/internal/recommend"
	"github.com/Alias1177/Rebalancer/models"
)

func main() {
	requestID := flag.String("request", "", "request identifier to filter; all requests when empty")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)

	engine, err := recommend.NewEngine(dataset.NewFileSource(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize engine")
	}

	if *requestID != "" {
		result, err := engine.FilterAccounts(*requestID)
		if err != nil {
			log.Fatal().Err(err).Str("request_id", *requestID).Msg("Filtering failed")
		}
		printResult(result)
		return
	}

	results, errs := engine.FilterAll()
	total := 0
	for _, result := range results {
		fmt.Printf("%s : %d accounts\n", result.RequestID, result.Count)
		total += result.Count
	}
	fmt.Printf("\nTotal filtered accounts across all requests: %d\n", total)
	if len(errs) > 0 {
		os.Exit(1)
	}
}

func printResult(result models.FilterResult) {
	fmt.Printf("Request %s: %d accounts matched\n", result.RequestID, result.Count)
	for _, id := range result.AccountIDs {
		fmt.Printf("  %s\n", id)
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
