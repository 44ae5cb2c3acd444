package storage

import (
	"context"
	"sync"
)

type MemoryRepository struct {
	mu    sync.Mutex
	value string
	set   bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// NewMemoryRepositoryWithRaw seeds the repository with an already encoded
// value, as if it had been written by an earlier run.
func NewMemoryRepositoryWithRaw(raw string) *MemoryRepository {
	return &MemoryRepository{value: raw, set: true}
}

func (r *MemoryRepository) LoadBest(ctx context.Context) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.set {
		return 0, false, nil
	}
	ms, ok := parseBest(r.value)
	return ms, ok, nil
}

func (r *MemoryRepository) SaveBest(ctx context.Context, ms int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.value = formatBest(ms)
	r.set = true
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
