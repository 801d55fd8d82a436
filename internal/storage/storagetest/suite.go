// Package storagetest holds the behaviour every core.Store driver must share.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Factory func(t *testing.T) core.Store

func turn(role, content string, at time.Time) core.Turn {
	return core.Turn{Role: role, Content: content, CreatedAt: at.UTC().Truncate(time.Millisecond)}
}

// Run executes the driver conformance suite.
func Run(t *testing.T, newStore Factory) {
	t.Run("RoundTrip", func(t *testing.T) { testRoundTrip(t, newStore(t)) })
	t.Run("LoadLimitKeepsNewest", func(t *testing.T) { testLoadLimit(t, newStore(t)) })
	t.Run("ChatsAreIsolated", func(t *testing.T) { testIsolation(t, newStore(t)) })
	t.Run("Clear", func(t *testing.T) { testClear(t, newStore(t)) })
	t.Run("Prune", func(t *testing.T) { testPrune(t, newStore(t)) })
	t.Run("Credentials", func(t *testing.T) { testCredentials(t, newStore(t)) })
}

func testRoundTrip(t *testing.T, s core.Store) {
	ctx := context.Background()
	now := time.Now()
	want := []core.Turn{
		turn(core.RoleUser, "hello", now),
		turn(core.RoleAssistant, "hi, how can I help?", now.Add(time.Second)),
		turn(core.RoleUser, "многоязычный текст 你好", now.Add(2*time.Second)),
	}

	require.NoError(t, s.Append(ctx, "telegram-1", want[:2]...))
	require.NoError(t, s.Append(ctx, "telegram-1", want[2]))

	got, err := s.Load(ctx, "telegram-1", 0)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Role, got[i].Role)
		assert.Equal(t, want[i].Content, got[i].Content)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt), "turn %d time %v != %v", i, got[i].CreatedAt, want[i].CreatedAt)
	}
}

func testLoadLimit(t *testing.T, s core.Store) {
	ctx := context.Background()
	now := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Append(ctx, "telegram-2", turn(core.RoleUser, fmt.Sprintf("m%d", i), now)))
	}

	got, err := s.Load(ctx, "telegram-2", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "m7", got[0].Content)
	assert.Equal(t, "m8", got[1].Content)
	assert.Equal(t, "m9", got[2].Content)

	all, err := s.Load(ctx, "telegram-2", 100)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func testIsolation(t *testing.T, s core.Store) {
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.Append(ctx, "telegram-a", turn(core.RoleUser, "for a", now)))
	require.NoError(t, s.Append(ctx, "telegram-b", turn(core.RoleUser, "for b", now)))

	got, err := s.Load(ctx, "telegram-a", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "for a", got[0].Content)

	empty, err := s.Load(ctx, "telegram-unknown", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testClear(t *testing.T, s core.Store) {
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.Append(ctx, "telegram-3", turn(core.RoleUser, "x", now), turn(core.RoleAssistant, "y", now)))
	require.NoError(t, s.Append(ctx, "telegram-4", turn(core.RoleUser, "keep", now)))

	require.NoError(t, s.Clear(ctx, "telegram-3"))
	require.NoError(t, s.Clear(ctx, "telegram-never-seen"))

	got, err := s.Load(ctx, "telegram-3", 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	kept, err := s.Load(ctx, "telegram-4", 0)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	// The chat is usable again after a clear
	require.NoError(t, s.Append(ctx, "telegram-3", turn(core.RoleUser, "again", now)))
	got, err = s.Load(ctx, "telegram-3", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "again", got[0].Content)
}

func testPrune(t *testing.T, s core.Store) {
	ctx := context.Background()
	now := time.Now()
	old := now.Add(-48 * time.Hour)

	require.NoError(t, s.Append(ctx, "telegram-5",
		turn(core.RoleUser, "old question", old),
		turn(core.RoleAssistant, "old answer", old),
		turn(core.RoleUser, "fresh", now),
	))
	require.NoError(t, s.Append(ctx, "telegram-6", turn(core.RoleUser, "stale", old)))

	n, err := s.Prune(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, err := s.Load(ctx, "telegram-5", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Content)

	gone, err := s.Load(ctx, "telegram-6", 0)
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func testCredentials(t *testing.T, s core.Store) {
	ctx := context.Background()

	_, err := s.Credential(ctx, "telegram-7")
	assert.True(t, errors.Is(err, core.ErrNotFound))

	require.NoError(t, s.SetCredential(ctx, "telegram-7", "sk-first"))
	require.NoError(t, s.SetCredential(ctx, "telegram-7", "sk-second"))

	key, err := s.Credential(ctx, "telegram-7")
	require.NoError(t, err)
	assert.Equal(t, "sk-second", key)

	require.NoError(t, s.DeleteCredential(ctx, "telegram-7"))
	_, err = s.Credential(ctx, "telegram-7")
	assert.True(t, errors.Is(err, core.ErrNotFound))

	require.NoError(t, s.DeleteCredential(ctx, "telegram-never-seen"))
}
