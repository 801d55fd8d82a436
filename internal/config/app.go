package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/chatrelay/pkg/log"
)

const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
	StoreMemory = "memory"
)

type AppConfig struct {
	RuntimePath string

	// Storage
	StoreDriver string        `env:"RELAY_STORE" envDefault:"sqlite"`
	DBPath      string        `env:"RELAY_DB_PATH"`
	CacheSize   int           `env:"RELAY_CACHE_SIZE" envDefault:"256"`
	CacheTTL    time.Duration `env:"RELAY_CACHE_TTL" envDefault:"10m"`

	// Context Management
	HistoryLimit int `env:"RELAY_HISTORY_LIMIT" envDefault:"50"`
	TokenBudget  int `env:"RELAY_TOKEN_BUDGET" envDefault:"2048"`

	// Completion pool
	Workers    int `env:"RELAY_WORKERS" envDefault:"4"`
	MaxRetries int `env:"RELAY_MAX_RETRIES" envDefault:"1"`

	// Retention, 0 days keeps history forever
	RetentionDays     int    `env:"RELAY_RETENTION_DAYS" envDefault:"0"`
	RetentionSchedule string `env:"RELAY_RETENTION_SCHEDULE" envDefault:"@daily"`
}

func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{RuntimePath: GetRuntimePath()}
	if err := env.Parse(c); err != nil {
		return nil, err
	}

	switch c.StoreDriver {
	case StoreSQLite, StoreBolt, StoreMemory:
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.TokenBudget <= 0 {
		return nil, fmt.Errorf("RELAY_TOKEN_BUDGET must be positive, got %d", c.TokenBudget)
	}
	if c.Workers <= 0 {
		return nil, fmt.Errorf("RELAY_WORKERS must be positive, got %d", c.Workers)
	}
	return c, nil
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetSystemPath() string {
	return filepath.Join(c.RuntimePath, "SYSTEM.md")
}

// GetDatabasePath returns the store file for the file-backed drivers.
func (c AppConfig) GetDatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	switch c.StoreDriver {
	case StoreBolt:
		return filepath.Join(c.RuntimePath, "chatrelay.bolt")
	default:
		return filepath.Join(c.RuntimePath, "chatrelay.db")
	}
}

func (c AppConfig) GetRetention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}
