package history

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore implements Store in memory, for demos and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Generation
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Record(_ context.Context, g Generation) error {
	g.Kinds = slices.Clone(g.Kinds)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, g)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.entries {
		if g.ID == id {
			g.Kinds = slices.Clone(g.Kinds)
			return g, nil
		}
	}
	return Generation{}, ErrNotFound
}

func (s *MemoryStore) List(_ context.Context, p Page) ([]Generation, int, error) {
	p = p.Normalize()
	s.mu.RLock()
	matched := make([]Generation, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		matched = append(matched, s.entries[i])
	}
	s.mu.RUnlock()

	// Newest first at millisecond precision, as SQLStore stores it; later
	// records win ties.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.UnixMilli() > matched[j].CreatedAt.UnixMilli()
	})

	total := len(matched)
	if p.Offset >= total {
		return []Generation{}, total, nil
	}
	end := min(p.Offset+p.Limit, total)
	return matched[p.Offset:end], total, nil
}
