package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/chatrelay/internal/core"
)

// Store keeps everything in process memory. History is lost on restart.
type Store struct {
	mu          sync.RWMutex
	turns       map[string][]core.Turn
	credentials map[string]string
}

func NewStore() *Store {
	return &Store{
		turns:       make(map[string][]core.Turn),
		credentials: make(map[string]string),
	}
}

func (s *Store) Append(ctx context.Context, chatID string, turns ...core.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range turns {
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now().UTC()
		}
		s.turns[chatID] = append(s.turns[chatID], t)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, chatID string, limit int) ([]core.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.turns[chatID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	if len(all) == 0 {
		return nil, nil
	}
	return append([]core.Turn(nil), all...), nil
}

func (s *Store) Clear(ctx context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, chatID)
	return nil
}

func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for chatID, turns := range s.turns {
		kept := turns[:0:0]
		for _, t := range turns {
			if t.CreatedAt.Before(before) {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		if len(kept) == 0 {
			delete(s.turns, chatID)
		} else {
			s.turns[chatID] = kept
		}
	}
	return removed, nil
}

func (s *Store) SetCredential(ctx context.Context, chatID, apiKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[chatID] = apiKey
	return nil
}

func (s *Store) Credential(ctx context.Context, chatID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.credentials[chatID]
	if !ok {
		return "", core.ErrNotFound
	}
	return key, nil
}

func (s *Store) DeleteCredential(ctx context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.credentials, chatID)
	return nil
}

func (s *Store) Close() error {
	return nil
}
