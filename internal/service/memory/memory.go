package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/pkg/log"
)

type Memory struct {
	store        core.TurnStore
	prompter     *SysPrompt
	historyLimit int
}

func NewMemory(store core.TurnStore, prompter *SysPrompt, historyLimit int) *Memory {
	return &Memory{
		store:        store,
		prompter:     prompter,
		historyLimit: historyLimit,
	}
}

// Context returns the pinned system turns followed by the chat's recent history.
func (m *Memory) Context(ctx context.Context, chatID string) ([]core.Turn, error) {
	turns := m.prompter.Build()

	history, err := m.store.Load(ctx, chatID, m.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	log.FromCtx(ctx).Debug().
		Int("system", len(turns)).
		Int("history", len(history)).
		Msg("context loaded")

	return append(turns, history...), nil
}

// Save stamps unstamped turns with the current time and appends them in order.
func (m *Memory) Save(ctx context.Context, chatID string, turns ...core.Turn) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	stamped := make([]core.Turn, len(turns))
	for i, t := range turns {
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		stamped[i] = t
	}

	if err := m.store.Append(ctx, chatID, stamped...); err != nil {
		return fmt.Errorf("failed to save turns: %w", err)
	}
	return nil
}

func (m *Memory) Reset(ctx context.Context, chatID string) error {
	if err := m.store.Clear(ctx, chatID); err != nil {
		return fmt.Errorf("failed to reset history: %w", err)
	}
	return nil
}
