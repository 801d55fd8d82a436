package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/chatrelay/internal/core"
)

type CredentialsRepo struct {
	db *sql.DB
}

func NewCredentialsRepo(db *sql.DB) *CredentialsRepo {
	return &CredentialsRepo{db: db}
}

func (r *CredentialsRepo) SetCredential(ctx context.Context, chatID, apiKey string) error {
	query := `
		INSERT INTO credentials (chat_id, api_key, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET api_key = excluded.api_key, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, chatID, apiKey, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}
	return nil
}

func (r *CredentialsRepo) Credential(ctx context.Context, chatID string) (string, error) {
	var key string
	err := r.db.QueryRowContext(ctx, `SELECT api_key FROM credentials WHERE chat_id = ?`, chatID).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", core.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query credential: %w", err)
	}
	return key, nil
}

func (r *CredentialsRepo) DeleteCredential(ctx context.Context, chatID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
