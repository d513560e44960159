// Package memory keeps durable slots in process memory. Used by tests and
// by STORAGE_BACKEND=memory for throwaway sessions.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/SscSPs/medisave/internal/apperrors"
	portsrepo "github.com/SscSPs/medisave/internal/core/ports/repositories"
)

// SlotRepository is a mutex-guarded map of slot blobs.
type SlotRepository struct {
	mu     sync.RWMutex
	slots  map[string][]byte
	writes int
}

var _ portsrepo.SlotRepositoryFacade = (*SlotRepository)(nil)

func NewSlotRepository() *SlotRepository {
	return &SlotRepository{slots: make(map[string][]byte)}
}

// NewRepositoryProvider exposes repo through the provider struct.
func NewRepositoryProvider(repo *SlotRepository) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{SlotRepo: repo}
}

func (r *SlotRepository) Read(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	blob, ok := r.slots[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("slot", key)
	}
	return slices.Clone(blob), nil
}

func (r *SlotRepository) Write(ctx context.Context, key string, blob []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[key] = slices.Clone(blob)
	r.writes++
	return nil
}

// Writes counts successful writes.
func (r *SlotRepository) Writes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.writes
}
