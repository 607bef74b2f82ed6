package gallery

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/genposter/pkg/errors"
)

// DefaultCapacity is the number of entries a MemoryStore keeps.
const DefaultCapacity = 200

// MemoryStore keeps the most recent entries in memory. When full, the
// oldest entry is dropped.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	order    []string // oldest first
	entries  map[string]Entry
}

// NewMemoryStore creates a store holding up to capacity entries
// (DefaultCapacity if capacity <= 0).
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		entries:  make(map[string]Entry),
	}
}

func (s *MemoryStore) Save(_ context.Context, e Entry) error {
	if e.ID == "" {
		return errors.Invalid("gallery entry has no id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[e.ID]; ok {
		s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == e.ID })
	}
	s.entries[e.ID] = e
	s.order = append(s.order, e.ID)

	for len(s.order) > s.capacity {
		delete(s.entries, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return Entry{}, errors.New(errors.ErrCodeNotFound, "poster %s not found", id)
	}
	return e, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Entry, error) {
	limit = normalizeLimit(limit)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[s.order[i]])
	}
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
