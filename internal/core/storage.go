package core

import (
	"context"
	"time"
)

// TurnStore persists conversation turns per chat identifier.
type TurnStore interface {
	// Append stores turns at the end of the chat's sequence.
	Append(ctx context.Context, chatID string, turns ...Turn) error
	// Load returns the last limit turns, oldest first. limit <= 0 loads everything.
	Load(ctx context.Context, chatID string, limit int) ([]Turn, error)
	Clear(ctx context.Context, chatID string) error
	// Prune deletes turns created before the given time and reports how many went.
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// CredentialStore maps a chat identifier to its own completion API key.
type CredentialStore interface {
	SetCredential(ctx context.Context, chatID, apiKey string) error
	// Credential returns ErrNotFound when the chat has no key of its own.
	Credential(ctx context.Context, chatID string) (string, error)
	DeleteCredential(ctx context.Context, chatID string) error
}

// Store is what a storage driver provides.
type Store interface {
	TurnStore
	CredentialStore
	Close() error
}
