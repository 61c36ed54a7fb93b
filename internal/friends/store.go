package friends

import (
	"context"
	"sync"
)

// Store is the keyed persistence layer behind the Registry. The key is the
// friend's unique_id.
type Store interface {
	// Get returns the record for uniqueID and whether it exists.
	Get(ctx context.Context, uniqueID string) (Friend, bool, error)
	// Put writes the record under its unique_id.
	Put(ctx context.Context, friend Friend) error
	// Delete removes the record, reporting whether anything was removed.
	Delete(ctx context.Context, uniqueID string) (bool, error)
	// List returns all records in display order.
	List(ctx context.Context) ([]Friend, error)
}

// MemoryStore is an in-process Store preserving insertion order. It is used
// in tests and when no redis address is configured.
type MemoryStore struct {
	mutex   sync.RWMutex
	byID    map[string]Friend
	ordered []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]Friend),
	}
}

func (s *MemoryStore) Get(_ context.Context, uniqueID string) (Friend, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	friend, ok := s.byID[uniqueID]
	return friend, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, friend Friend) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.byID[friend.UniqueID]; !exists {
		s.ordered = append(s.ordered, friend.UniqueID)
	}
	s.byID[friend.UniqueID] = friend

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, uniqueID string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.byID[uniqueID]; !exists {
		return false, nil
	}

	delete(s.byID, uniqueID)
	for i, id := range s.ordered {
		if id == uniqueID {
			s.ordered = append(s.ordered[:i], s.ordered[i+1:]...)
			break
		}
	}

	return true, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Friend, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]Friend, 0, len(s.ordered))
	for _, id := range s.ordered {
		out = append(out, s.byID[id])
	}

	return out, nil
}
