package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/pkg/log"
)

type TurnsRepo struct {
	db *sql.DB
}

func NewTurnsRepo(db *sql.DB) *TurnsRepo {
	return &TurnsRepo{db: db}
}

func (r *TurnsRepo) Append(ctx context.Context, chatID string, turns ...core.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO turns (chat_id, role, content, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range turns {
		createdAt := t.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, chatID, t.Role, t.Content, createdAt.UnixMilli()); err != nil {
			return fmt.Errorf("failed to insert turn: %w", err)
		}
	}

	return tx.Commit()
}

func (r *TurnsRepo) Load(ctx context.Context, chatID string, limit int) ([]core.Turn, error) {
	// Newest first so LIMIT keeps the tail, reversed below. -1 means no limit in SQLite.
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT role, content, created_at FROM turns WHERE chat_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var t core.Turn
		var createdAt int64
		if err := rows.Scan(&t.Role, &t.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		t.CreatedAt = time.UnixMilli(createdAt).UTC()
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	log.FromCtx(ctx).Debug().Str("chat_id", chatID).Int("count", len(turns)).Msg("loaded history turns")
	return turns, nil
}

func (r *TurnsRepo) Clear(ctx context.Context, chatID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM turns WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("failed to clear turns: %w", err)
	}
	return nil
}

func (r *TurnsRepo) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM turns WHERE created_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune turns: %w", err)
	}
	return res.RowsAffected()
}
