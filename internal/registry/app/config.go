package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Issuer is the expected iss claim on admin bearer tokens.
	Issuer string `env:"REGISTRY_ISSUER" envDefault:"cloudfleet-auth"`

	// AdminPublicKey is the base64 raw Ed25519 public key used to verify
	// admin bearer tokens. Required.
	AdminPublicKey string `env:"REGISTRY_ADMIN_PUBLIC_KEY,required"`

	// DatabaseFile is the path to the SQLite database file.
	DatabaseFile string `env:"REGISTRY_DATABASE_FILE" envDefault:"registry.db"`

	// StoreWorkers sizes the record store's worker pool.
	StoreWorkers int `env:"REGISTRY_STORE_WORKERS" envDefault:"4"`

	// BridgeTimeout bounds each synchronous lookup served to the
	// authorization runtime.
	BridgeTimeout time.Duration `env:"REGISTRY_BRIDGE_TIMEOUT" envDefault:"3s"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads configuration from the environment, with an optional
// .env file for local development.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.StoreWorkers < 1 {
		return Config{}, fmt.Errorf("REGISTRY_STORE_WORKERS must be >= 1, got %d", cfg.StoreWorkers)
	}

	return cfg, nil
}
