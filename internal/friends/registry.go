package friends

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/furnet-labs/furnet/internal/apperrors"
)

// Registry owns the friend list. It serializes mutations so that the
// unique_id invariant holds even under concurrent link attempts for the
// same peer.
type Registry struct {
	mutex sync.Mutex
	store Store
	now   func() time.Time
}

func NewRegistry(store Store) *Registry {
	return &Registry{
		store: store,
		now:   time.Now,
	}
}

// List returns all current friend records.
func (r *Registry) List(ctx context.Context) ([]Friend, error) {
	return r.store.List(ctx)
}

// Add registers a new friend, stamping connected_at. A candidate whose
// unique_id is already registered is rejected, never overwritten.
func (r *Registry) Add(ctx context.Context, candidate Candidate) (Friend, error) {
	if err := candidate.Validate(); err != nil {
		return Friend{}, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	_, exists, err := r.store.Get(ctx, candidate.UniqueID)
	if err != nil {
		return Friend{}, err
	}
	if exists {
		return Friend{}, apperrors.DuplicateFriend(
			fmt.Sprintf("friend with unique_id '%s' already exists", candidate.UniqueID))
	}

	friend := Friend{
		UniqueID:    candidate.UniqueID,
		DNSName:     candidate.DNSName,
		Name:        candidate.Name,
		ConnectedAt: r.now().UTC(),
	}

	if err := r.store.Put(ctx, friend); err != nil {
		return Friend{}, err
	}

	return friend, nil
}

// Remove deletes the record for uniqueID, reporting whether a removal
// occurred. Removing an absent id is not an error.
func (r *Registry) Remove(ctx context.Context, uniqueID string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.store.Delete(ctx, uniqueID)
}
