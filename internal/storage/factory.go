package storage

import (
	"context"
	"fmt"

	"github.com/sandevgo/chatrelay/internal/config"
	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/internal/storage/bolt"
	"github.com/sandevgo/chatrelay/internal/storage/cache"
	"github.com/sandevgo/chatrelay/internal/storage/memory"
	"github.com/sandevgo/chatrelay/internal/storage/sqlite"
	"github.com/sandevgo/chatrelay/pkg/log"
)

// Open creates the configured store driver, wrapped in the turn cache.
func Open(ctx context.Context, cfg *config.AppConfig) (core.Store, error) {
	backing, err := openDriver(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Info().
		Str("driver", cfg.StoreDriver).
		Int("cache_size", cfg.CacheSize).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("store ready")

	return cache.New(backing, cfg.CacheSize, cfg.CacheTTL), nil
}

func openDriver(ctx context.Context, cfg *config.AppConfig) (core.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		return sqlite.Open(ctx, cfg.GetDatabasePath())
	case config.StoreBolt:
		return bolt.Open(cfg.GetDatabasePath())
	case config.StoreMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.StoreDriver)
	}
}
