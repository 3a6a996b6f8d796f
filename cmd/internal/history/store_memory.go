package history

import (
	"context"
	"sync"
)

// MemoryStore keeps history sequences in a map, for tests and the
// no-database dev mode.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][][]int
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][][]int)}
}

// Load returns a deep copy so callers can mutate freely.
func (s *MemoryStore) Load(ctx context.Context, login string) ([][]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyEntries(s.data[login]), nil
}

// Save replaces the stored sequence for login.
func (s *MemoryStore) Save(ctx context.Context, login string, entries [][]int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[login] = copyEntries(entries)
	return nil
}

// DeleteAll removes the sequence for login.
func (s *MemoryStore) DeleteAll(ctx context.Context, login string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[login]; !ok {
		return ErrNotFound
	}
	delete(s.data, login)
	return nil
}

func copyEntries(entries [][]int) [][]int {
	if entries == nil {
		return nil
	}
	out := make([][]int, len(entries))
	for i, e := range entries {
		out[i] = append([]int(nil), e...)
	}
	return out
}
