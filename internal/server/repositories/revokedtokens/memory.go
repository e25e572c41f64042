package revokedtokens

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository is a process-local denylist.
type MemoryRepository struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{revoked: make(map[string]time.Time)}
}

func (r *MemoryRepository) Revoke(_ context.Context, id string, expiresAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.revoked[id]; ok {
		return false, nil
	}
	r.revoked[id] = expiresAt
	return true, nil
}

func (r *MemoryRepository) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.revoked[id]
	return ok, nil
}

func (r *MemoryRepository) Purge(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, id)
			n++
		}
	}
	return n, nil
}
