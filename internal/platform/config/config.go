package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Entity resolution thresholds. A fuzzy match below Accept is ignored;
	// at or above Learn it is persisted as a learned mapping.
	FuzzyAcceptThreshold float64
	FuzzyLearnThreshold  float64

	// ReconcileTolerance is the absolute per-date amount difference tolerated
	// before an import reports a discrepancy. Kept as a string so it parses
	// into an exact decimal, not a float.
	ReconcileTolerance string

	DefaultCurrency string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("FUZZY_ACCEPT_THRESHOLD", 0.6)
	viper.SetDefault("FUZZY_LEARN_THRESHOLD", 0.9)
	viper.SetDefault("RECONCILE_TOLERANCE", "0.01")
	viper.SetDefault("DEFAULT_CURRENCY", "EUR")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.FuzzyAcceptThreshold = viper.GetFloat64("FUZZY_ACCEPT_THRESHOLD")
	cfg.FuzzyLearnThreshold = viper.GetFloat64("FUZZY_LEARN_THRESHOLD")
	if cfg.FuzzyAcceptThreshold <= 0 || cfg.FuzzyAcceptThreshold > 1 {
		log.Printf("Warning: Invalid FUZZY_ACCEPT_THRESHOLD (%v). Defaulting to 0.6.\n", cfg.FuzzyAcceptThreshold)
		cfg.FuzzyAcceptThreshold = 0.6
	}
	if cfg.FuzzyLearnThreshold < cfg.FuzzyAcceptThreshold || cfg.FuzzyLearnThreshold > 1 {
		log.Printf("Warning: Invalid FUZZY_LEARN_THRESHOLD (%v). Defaulting to 0.9.\n", cfg.FuzzyLearnThreshold)
		cfg.FuzzyLearnThreshold = 0.9
	}

	cfg.ReconcileTolerance = viper.GetString("RECONCILE_TOLERANCE")
	cfg.DefaultCurrency = viper.GetString("DEFAULT_CURRENCY")

	return cfg, nil
}
