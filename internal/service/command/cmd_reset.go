package command

import (
	"context"
	"fmt"
)

type Resetter interface {
	Reset(ctx context.Context, chatID string) error
}

type ResetCommand struct {
	memory    Resetter
	formatter *ResponseFormatter
}

func NewResetCommand(memory Resetter) *ResetCommand {
	return &ResetCommand{
		memory:    memory,
		formatter: NewResponseFormatter(),
	}
}

func (c *ResetCommand) Name() string {
	return "reset"
}

func (c *ResetCommand) Description() string {
	return "Forget the conversation history of this chat"
}

func (c *ResetCommand) Execute(ctx context.Context, chatID string, _ []string) (string, error) {
	if err := c.memory.Reset(ctx, chatID); err != nil {
		return "", fmt.Errorf("failed to reset history: %w", err)
	}
	return c.formatter.Success("History cleared"), nil
}
