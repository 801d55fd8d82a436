package command

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resetterFunc func(ctx context.Context, chatID string) error

func (f resetterFunc) Reset(ctx context.Context, chatID string) error { return f(ctx, chatID) }

func newTestRouter(t *testing.T) (*Router, *memory.Store, *[]string) {
	t.Helper()
	store := memory.NewStore()
	var resets []string
	r := NewRouter("Hello! I'm ready to work.", resetterFunc(func(_ context.Context, chatID string) error {
		resets = append(resets, chatID)
		return nil
	}), store)
	return r, store, &resets
}

func TestRouter_NotACommand(t *testing.T) {
	r, _, _ := newTestRouter(t)
	out, ok := r.Execute(context.Background(), "c", "hello /start")
	assert.False(t, ok)
	assert.Empty(t, out)
}

func TestRouter_Start(t *testing.T) {
	r, _, _ := newTestRouter(t)

	for _, input := range []string{"/start", "/start@relay_bot", "  /start"} {
		out, ok := r.Execute(context.Background(), "c", input)
		if input == "  /start" {
			assert.False(t, ok)
			continue
		}
		assert.True(t, ok, input)
		assert.Equal(t, "Hello! I'm ready to work.", out)
	}
}

func TestRouter_Unknown(t *testing.T) {
	r, _, _ := newTestRouter(t)
	out, ok := r.Execute(context.Background(), "c", "/weather moscow")
	assert.True(t, ok)
	assert.Equal(t, "Unknown command: /weather", out)
}

func TestRouter_ListCommandsSorted(t *testing.T) {
	r, _, _ := newTestRouter(t)

	var names []string
	for _, cmd := range r.ListCommands() {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{"help", "key", "reset", "start"}, names)

	out, ok := r.Execute(context.Background(), "c", "/help")
	assert.True(t, ok)
	assert.Contains(t, out, "/reset")
	assert.Contains(t, out, "/help")
}

func TestRouter_Reset(t *testing.T) {
	r, _, resets := newTestRouter(t)
	out, ok := r.Execute(context.Background(), "telegram-5", "/reset")
	assert.True(t, ok)
	assert.Contains(t, out, "History cleared")
	assert.Equal(t, []string{"telegram-5"}, *resets)
}

func TestRouter_ResetError(t *testing.T) {
	r := New([]core.Command{NewResetCommand(resetterFunc(func(context.Context, string) error {
		return errors.New("disk full")
	}))})
	out, ok := r.Execute(context.Background(), "c", "/reset")
	assert.True(t, ok)
	assert.Contains(t, out, "disk full")
}

func TestKeyCommand(t *testing.T) {
	ctx := context.Background()
	r, store, _ := newTestRouter(t)

	out, _ := r.Execute(ctx, "c", "/key")
	assert.Contains(t, out, "default key")

	out, _ = r.Execute(ctx, "c", "/key sk-secret-1234")
	assert.Contains(t, out, "****1234")
	assert.NotContains(t, out, "sk-secret")

	key, err := store.Credential(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "sk-secret-1234", key)

	out, _ = r.Execute(ctx, "c", "/key")
	assert.Contains(t, out, "personal key")
	assert.Contains(t, out, "****1234")

	out, _ = r.Execute(ctx, "c", "/key two words")
	assert.Contains(t, out, "single word")

	out, _ = r.Execute(ctx, "c", "/key clear")
	assert.Contains(t, out, "removed")
	_, err = store.Credential(ctx, "c")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", Mask("abc"))
	assert.Equal(t, "****cdef", Mask("sk-abcdef"))
}
