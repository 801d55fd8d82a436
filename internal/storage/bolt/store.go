package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandevgo/chatrelay/internal/core"
	"github.com/sandevgo/chatrelay/pkg/log"
	bolt "go.etcd.io/bbolt"
)

var (
	turnsBucket       = []byte("turns")
	credentialsBucket = []byte("credentials")
)

// Store keeps every chat in its own nested bucket under "turns", keyed by a
// big-endian sequence so cursor order equals chronological order.
type Store struct {
	db *bolt.DB
}

type credentialRecord struct {
	APIKey    string    `json:"api_key"`
	UpdatedAt time.Time `json:"updated_at"`
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{turnsBucket, credentialsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Append(ctx context.Context, chatID string, turns ...core.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		chat, err := tx.Bucket(turnsBucket).CreateBucketIfNotExists([]byte(chatID))
		if err != nil {
			return err
		}

		for _, t := range turns {
			if t.CreatedAt.IsZero() {
				t.CreatedAt = time.Now().UTC()
			}
			seq, err := chat.NextSequence()
			if err != nil {
				return err
			}
			val, err := json.Marshal(t)
			if err != nil {
				return err
			}
			if err := chat.Put(itob(seq), val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append turns: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, chatID string, limit int) ([]core.Turn, error) {
	var turns []core.Turn

	err := s.db.View(func(tx *bolt.Tx) error {
		chat := tx.Bucket(turnsBucket).Bucket([]byte(chatID))
		if chat == nil {
			return nil
		}

		c := chat.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(turns) >= limit {
				break
			}
			var t core.Turn
			if err := json.Unmarshal(v, &t); err != nil {
				return fmt.Errorf("decode turn %d: %w", btoi(k), err)
			}
			turns = append(turns, t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (s *Store) Clear(ctx context.Context, chatID string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket(turnsBucket).DeleteBucket([]byte(chatID))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear turns: %w", err)
	}
	return nil
}

func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	logger := log.FromCtx(ctx)
	var removed int64

	err := s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(turnsBucket)

		var emptied [][]byte
		err := root.ForEachBucket(func(name []byte) error {
			chat := root.Bucket(name)

			var stale [][]byte
			err := chat.ForEach(func(k, v []byte) error {
				var t core.Turn
				if err := json.Unmarshal(v, &t); err != nil {
					logger.Warn().Err(err).
						Str("chat_id", string(name)).
						Uint64("seq", btoi(k)).
						Msg("skipping undecodable turn")
					return nil
				}
				if t.CreatedAt.Before(before) {
					stale = append(stale, append([]byte(nil), k...))
				}
				return nil
			})
			if err != nil {
				return err
			}

			for _, k := range stale {
				if err := chat.Delete(k); err != nil {
					return err
				}
				removed++
			}

			if k, _ := chat.Cursor().First(); k == nil {
				emptied = append(emptied, append([]byte(nil), name...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		// Buckets can't be dropped while ForEachBucket walks them
		for _, name := range emptied {
			if err := root.DeleteBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune turns: %w", err)
	}
	return removed, nil
}

func (s *Store) SetCredential(ctx context.Context, chatID, apiKey string) error {
	val, err := json.Marshal(credentialRecord{APIKey: apiKey, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(credentialsBucket).Put([]byte(chatID), val)
	})
	if err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

func (s *Store) Credential(ctx context.Context, chatID string) (string, error) {
	var rec credentialRecord
	found := false

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(credentialsBucket).Get([]byte(chatID))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	if !found {
		return "", core.ErrNotFound
	}
	return rec.APIKey, nil
}

func (s *Store) DeleteCredential(ctx context.Context, chatID string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(credentialsBucket).Delete([]byte(chatID))
	})
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func btoi(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
