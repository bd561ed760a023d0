// Package config loads runtime configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings. Remote settings are optional: with no
// Firestore project configured the client runs fully local.
type Config struct {
	DBPath           string `env:"TEMPUS_DB"`
	FirestoreProject string `env:"TEMPUS_FIRESTORE_PROJECT"`
	CredentialsFile  string `env:"TEMPUS_CREDENTIALS"`
	UserID           string `env:"TEMPUS_UID"`
	LogLevel         string `env:"TEMPUS_LOG_LEVEL" envDefault:"warn"`
}

// Load parses the environment and fills in the default database location
// ~/.tempus/tempus.db.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".tempus", "tempus.db")
	}
	return cfg, nil
}
