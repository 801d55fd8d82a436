package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/chatrelay/internal/core"
)

type KeyCommand struct {
	store     core.CredentialStore
	formatter *ResponseFormatter
}

func NewKeyCommand(store core.CredentialStore) *KeyCommand {
	return &KeyCommand{
		store:     store,
		formatter: NewResponseFormatter(),
	}
}

func (c *KeyCommand) Name() string {
	return "key"
}

func (c *KeyCommand) Description() string {
	return "Show, set or clear the API key of this chat"
}

func (c *KeyCommand) Execute(ctx context.Context, chatID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.status(ctx, chatID)
	}

	if len(args) > 1 {
		return "", errors.New("the key must be a single word")
	}

	if args[0] == "clear" {
		if err := c.store.DeleteCredential(ctx, chatID); err != nil {
			return "", fmt.Errorf("failed to clear key: %w", err)
		}
		return c.formatter.Success("Personal key removed, the default key is used now"), nil
	}

	if err := c.store.SetCredential(ctx, chatID, args[0]); err != nil {
		return "", fmt.Errorf("failed to store key: %w", err)
	}
	return c.formatter.Combine(
		c.formatter.Success("Personal key saved"),
		c.formatter.Label("Key", Mask(args[0])),
	), nil
}

func (c *KeyCommand) status(ctx context.Context, chatID string) (string, error) {
	key, err := c.store.Credential(ctx, chatID)
	switch {
	case errors.Is(err, core.ErrNotFound):
		return c.formatter.Combine(
			c.formatter.Info("Using the default key"),
			c.formatter.Usage("/key <api-key>\n/key clear"),
		), nil
	case err != nil:
		return "", fmt.Errorf("failed to get key: %w", err)
	}

	return c.formatter.Combine(
		c.formatter.Info("Using a personal key"),
		c.formatter.Label("Key", Mask(key)),
		c.formatter.Usage("/key <api-key>\n/key clear"),
	), nil
}

// Mask hides all but the last four characters of a key.
func Mask(key string) string {
	const visible = 4
	if len(key) <= visible {
		return "****"
	}
	return "****" + key[len(key)-visible:]
}
