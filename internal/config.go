package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	Catalog  CatalogConfig
	Coupon   CouponConfig
	Shipping ShippingConfig
}

// CatalogConfig controls the active-promotions fetch.
type CatalogConfig struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int
}

// CouponConfig controls the remote coupon authority and the validation
// debounce windows. EntryDebounce gates validation after code entry;
// RevalidateDebounce gates re-validation of an already applied coupon
// after a cart change.
type CouponConfig struct {
	URL                string
	Timeout            time.Duration
	MaxRetries         int
	EntryDebounce      time.Duration
	RevalidateDebounce time.Duration
}

// ShippingConfig holds the authoritative shipping-cost service endpoint and
// the flat estimate shown for FREE_SHIPPING promotions. The estimate is
// display-only; the external service owns the real charge.
type ShippingConfig struct {
	URL           string
	Timeout       time.Duration
	EstimateCents int64
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		Catalog: CatalogConfig{
			URL:        getEnv("CATALOG_URL", "http://localhost:4000/api/promotions/active"),
			Timeout:    getEnvDuration("CATALOG_TIMEOUT", 5*time.Second),
			MaxRetries: int(getEnvInt("CATALOG_MAX_RETRIES", 2)),
		},
		Coupon: CouponConfig{
			URL:                getEnv("COUPON_URL", "http://localhost:4000/api/coupons/validate"),
			Timeout:            getEnvDuration("COUPON_TIMEOUT", 5*time.Second),
			MaxRetries:         int(getEnvInt("COUPON_MAX_RETRIES", 1)),
			EntryDebounce:      getEnvDuration("COUPON_ENTRY_DEBOUNCE", 500*time.Millisecond),
			RevalidateDebounce: getEnvDuration("COUPON_REVALIDATE_DEBOUNCE", 300*time.Millisecond),
		},
		Shipping: ShippingConfig{
			URL:           getEnv("SHIPPING_URL", ""),
			Timeout:       getEnvDuration("SHIPPING_TIMEOUT", 5*time.Second),
			EstimateCents: getEnvInt64("FREE_SHIPPING_ESTIMATE_CENTS", 795),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Catalog.URL == "" {
		return nil, fmt.Errorf("CATALOG_URL must be set")
	}
	if cfg.Coupon.URL == "" {
		return nil, fmt.Errorf("COUPON_URL must be set")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		var intValue int64
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
