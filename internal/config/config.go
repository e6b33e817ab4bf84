package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	AccountsFile         string `env:"ACCOUNTS_FILE" envDefault:"data/market_data/customer_accounts.csv"`
	HoldingsFile         string `env:"HOLDINGS_FILE" envDefault:"data/market_data/customer_accounts_holdings.csv"`
	MarketConditionsFile string `env:"MARKET_CONDITIONS_FILE" envDefault:"data/market_data/market_conditions.csv"`
	SectorMapFile        string `env:"SECTOR_MAP_FILE" envDefault:"data/market_data/Safari55.csv"`
	RequestsFile         string `env:"REQUESTS_FILE" envDefault:"data/api_data/rebalance_requests.json"`
	OutputDir            string `env:"OUTPUT_DIR" envDefault:"output"`
	LogLevel             string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := Config{
		AccountsFile:         getEnvWithDefault("ACCOUNTS_FILE", "data/market_data/customer_accounts.csv"),
		HoldingsFile:         getEnvWithDefault("HOLDINGS_FILE", "data/market_data/customer_accounts_holdings.csv"),
		MarketConditionsFile: getEnvWithDefault("MARKET_CONDITIONS_FILE", "data/market_data/market_conditions.csv"),
		SectorMapFile:        getEnvWithDefault("SECTOR_MAP_FILE", "data/market_data/Safari55.csv"),
		RequestsFile:         getEnvWithDefault("REQUESTS_FILE", "data/api_data/rebalance_requests.json"),
		OutputDir:            getEnvWithDefault("OUTPUT_DIR", "output"),
		LogLevel:             getEnvWithDefault("LOG_LEVEL", "info"),
	}

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
