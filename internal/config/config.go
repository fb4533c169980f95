package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config carries everything the server needs from its environment.
type Config struct {
	ServerAddr    string
	DatabaseURL   string
	SQLitePath    string
	KafkaBrokers  []string
	KafkaTopic    string
	WorkerPool    int
	AmountCeiling decimal.Decimal
}

// Load reads configuration from the environment, after loading a .env file if
// one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddr:    EnvOr("SERVER_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    os.Getenv("SQLITE_PATH"),
		KafkaTopic:    EnvOr("KAFKA_TOPIC", "transaction_processed"),
		WorkerPool:    100,
		AmountCeiling: decimal.NewFromInt(100000),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if v := os.Getenv("WORKER_POOL_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid WORKER_POOL_SIZE %q", v)
		}
		cfg.WorkerPool = n
	}
	if v := os.Getenv("AMOUNT_CEILING"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AMOUNT_CEILING %q: %w", v, err)
		}
		cfg.AmountCeiling = d
	}
	return cfg, nil
}

// EnvOr returns the value of key, or fallback when it is unset or empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
