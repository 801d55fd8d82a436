package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sandevgo/chatrelay/internal/core"
)

type entry struct {
	turns []core.Turn
	limit int
}

// Store puts a bounded, expiring per-chat cache in front of a core.Store.
// A cached entry always equals the tail the backing store would return for
// the same limit; credentials are not cached.
type Store struct {
	core.Store

	// mu keeps store writes and cache updates in the same order.
	mu    sync.Mutex
	turns *expirable.LRU[string, entry]
}

func New(backing core.Store, size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = 1
	}
	return &Store{
		Store: backing,
		turns: expirable.NewLRU[string, entry](size, nil, ttl),
	}
}

func (s *Store) Load(ctx context.Context, chatID string, limit int) ([]core.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.turns.Get(chatID); ok && e.limit == limit {
		return clone(e.turns), nil
	}

	turns, err := s.Store.Load(ctx, chatID, limit)
	if err != nil {
		return nil, err
	}
	s.turns.Add(chatID, entry{turns: clone(turns), limit: limit})
	return turns, nil
}

func (s *Store) Append(ctx context.Context, chatID string, turns ...core.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Store.Append(ctx, chatID, turns...); err != nil {
		s.turns.Remove(chatID)
		return err
	}

	e, ok := s.turns.Get(chatID)
	if !ok {
		return nil
	}
	e.turns = append(e.turns, turns...)
	if e.limit > 0 && len(e.turns) > e.limit {
		e.turns = clone(e.turns[len(e.turns)-e.limit:])
	}
	s.turns.Add(chatID, e)
	return nil
}

func (s *Store) Clear(ctx context.Context, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns.Remove(chatID)
	return s.Store.Clear(ctx, chatID)
}

func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns.Purge()
	return s.Store.Prune(ctx, before)
}

// Len reports the number of cached chats.
func (s *Store) Len() int {
	return s.turns.Len()
}

func clone(turns []core.Turn) []core.Turn {
	if turns == nil {
		return nil
	}
	return append([]core.Turn(nil), turns...)
}
