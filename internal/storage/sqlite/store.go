package sqlite

import (
	"context"
	"database/sql"
)

// Store bundles the repositories over one database handle.
type Store struct {
	*TurnsRepo
	*CredentialsRepo
	db *sql.DB
}

func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := NewDB(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	return &Store{
		TurnsRepo:       NewTurnsRepo(db),
		CredentialsRepo: NewCredentialsRepo(db),
		db:              db,
	}, nil
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}
