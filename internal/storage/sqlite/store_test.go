package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) core.Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "relay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storagetest.Run(t, newTestStore)
}

func TestMigrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "relay.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	version, err := Version(ctx, s.DB())
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	// Running migrations twice is a no-op
	require.NoError(t, Migrate(ctx, s.DB()))
}
