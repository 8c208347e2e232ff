package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryStateRepository is the in-process fallback used when Redis is not
// configured or unreachable. Counters reset on restart, which is acceptable
// for a best-effort limit.
type MemoryStateRepository struct {
	mu         sync.Mutex
	rateLimits map[int64]*rateLimitEntry
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{
		rateLimits: make(map[int64]*rateLimitEntry),
	}
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entry, ok := r.rateLimits[userID]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
		r.rateLimits[userID] = entry
	} else {
		entry.count++
	}

	return entry.count <= limit, nil
}

func (r *MemoryStateRepository) Ping(ctx context.Context) error { return nil }

func (r *MemoryStateRepository) Close() error { return nil }
