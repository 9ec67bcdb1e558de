package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath        string
	ServerPort    string
	TombstonePath string

	// Wallet auth bridge.
	AuthDomain      string
	AuthProviderURL string
	AuthProviderKey string
	SessionSecret   string

	ReconcileInterval time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:            getEnv("DB_PATH", "fifa.db"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		TombstonePath:     getEnv("TOMBSTONE_PATH", "deleted_matches.json"),
		AuthDomain:        getEnv("AUTH_DOMAIN", "localhost:3000"),
		AuthProviderURL:   getEnv("AUTH_PROVIDER_URL", "https://api.walletauth.dev"),
		AuthProviderKey:   getEnv("AUTH_PROVIDER_KEY", ""),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		ReconcileInterval: getDurationEnv("RECONCILE_INTERVAL", 5*time.Minute),
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("tombstone_path", cfg.TombstonePath).
		Str("auth_domain", cfg.AuthDomain).
		Str("auth_provider_url", cfg.AuthProviderURL).
		Dur("reconcile_interval", cfg.ReconcileInterval).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
