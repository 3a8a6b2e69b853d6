package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	// BaseCurrencyCode is the settlement currency every purchase order is
	// converted into. All stored rates point at this currency.
	BaseCurrencyCode string

	// TrackedCurrencies are the foreign currencies the rate importer keeps
	// quotes for.
	TrackedCurrencies []string

	QuoteProviderURL     string
	QuoteProviderTimeout time.Duration

	// RateImportInterval enables the periodic rate import when positive;
	// zero disables the background importer entirely.
	RateImportInterval time.Duration

	// RateLimit uses the "<count>-<period>" format, e.g. "100-M".
	RateLimit string
}

// LoadConfig reads configuration from environment variables, with an optional
// .env file for local development.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("BASE_CURRENCY_CODE", "MYR")
	v.SetDefault("TRACKED_CURRENCIES", "USD,SGD,EUR,GBP,CNY,THB,IDR")
	v.SetDefault("QUOTE_PROVIDER_TIMEOUT", "10s")
	v.SetDefault("RATE_IMPORT_INTERVAL", "0")
	v.SetDefault("RATE_LIMIT", "100-M")

	cfg := &Config{
		DatabaseURL:          v.GetString("PGSQL_URL"),
		Port:                 v.GetString("PORT"),
		IsProduction:         v.GetBool("IS_PRODUCTION"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		BaseCurrencyCode:     strings.ToUpper(v.GetString("BASE_CURRENCY_CODE")),
		TrackedCurrencies:    splitCurrencies(v.GetString("TRACKED_CURRENCIES")),
		QuoteProviderURL:     v.GetString("QUOTE_PROVIDER_URL"),
		QuoteProviderTimeout: v.GetDuration("QUOTE_PROVIDER_TIMEOUT"),
		RateImportInterval:   v.GetDuration("RATE_IMPORT_INTERVAL"),
		RateLimit:            v.GetString("RATE_LIMIT"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PGSQL_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.RateImportInterval > 0 && cfg.QuoteProviderURL == "" {
		return nil, fmt.Errorf("QUOTE_PROVIDER_URL is required when RATE_IMPORT_INTERVAL is set")
	}

	return cfg, nil
}

func splitCurrencies(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
