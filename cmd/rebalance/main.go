package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Rebalancer/internal/config"
	"github.com/Alias1177/Rebalancer/internal/dataset"
	"github.com/Alias1177/Rebalancer/internal/recommend"
)

func main() {
	requestID := flag.String("request", "", "rebalance request identifier to process (required)")
	outFile := flag.String("out", "trade_recommendations.json", "output file name inside the output directory")
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

	doc, err := engine.GenerateRecommendations(*requestID)
	if err != nil {
		log.Fatal().Err(err).Str("request_id", *requestID).Msg("Failed to generate recommendations")
	}
	if len(doc.Accounts) == 0 {
		log.Warn().Str("request_id", *requestID).Msg("No accounts with holdings matched the criteria")
	}

	path, err := dataset.WriteDocument(cfg.OutputDir, *outFile, doc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write recommendations")
	}
	log.Info().Str("path", path).Int("accounts", len(doc.Accounts)).Msg("Recommendations written")
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
