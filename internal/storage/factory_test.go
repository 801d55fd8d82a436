package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandevgo/chatrelay/internal/config"
	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	for _, driver := range []string{config.StoreSQLite, config.StoreBolt, config.StoreMemory} {
		t.Run(driver, func(t *testing.T) {
			dir := t.TempDir()
			cfg := &config.AppConfig{
				RuntimePath: dir,
				StoreDriver: driver,
				CacheSize:   4,
				CacheTTL:    time.Minute,
			}

			s, err := Open(context.Background(), cfg)
			require.NoError(t, err)
			defer s.Close()

			ctx := context.Background()
			require.NoError(t, s.Append(ctx, "telegram-1", core.Turn{Role: core.RoleUser, Content: "ping"}))
			got, err := s.Load(ctx, "telegram-1", 0)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "ping", got[0].Content)

			if driver != config.StoreMemory {
				assert.FileExists(t, cfg.GetDatabasePath())
				assert.Equal(t, dir, filepath.Dir(cfg.GetDatabasePath()))
			}
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.AppConfig{StoreDriver: "mongo"})
	assert.Error(t, err)
}
