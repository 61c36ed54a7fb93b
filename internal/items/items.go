package items

import (
	"fmt"
	"sync"

	"github.com/furnet-labs/furnet/internal/apperrors"
)

// Item is one entry in the demo list.
type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Store is an in-memory item list seeded with two demo items.
type Store struct {
	mutex sync.RWMutex
	items []Item
}

func NewStore() *Store {
	return &Store{
		items: []Item{
			{ID: 1, Name: "Item 1", Description: "First item"},
			{ID: 2, Name: "Item 2", Description: "Second item"},
		},
	}
}

// List returns all items.
func (s *Store) List() []Item {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the item with the given id.
func (s *Store) Get(id int) (Item, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}

	return Item{}, apperrors.EntityNotFound(fmt.Sprintf("item %d not found", id))
}

// Create appends a new item.
func (s *Store) Create(item Item) Item {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.items = append(s.items, item)
	return item
}

// Delete removes the item with the given id.
func (s *Store) Delete(id int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}

	return apperrors.EntityNotFound(fmt.Sprintf("item %d not found", id))
}
