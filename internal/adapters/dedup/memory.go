package dedup

import (
	"context"
	"sync"
	"time"
)

// sweepInterval is the number of lookups between full sweeps of expired
// entries.
const sweepInterval = 256

// MemoryFilter is an in-process implementation of core.DedupFilter, used
// when no Redis is configured. Entries expire on lookup, and a full sweep
// runs every sweepInterval lookups so the map stays bounded by the TTL
// window even under a stream of unique message ids.
type MemoryFilter struct {
	seen map[string]time.Time
	ttl  time.Duration
	ops  int
	mu   sync.Mutex
}

// NewMemoryFilter creates an in-memory dedup filter.
func NewMemoryFilter(ttl time.Duration) *MemoryFilter {
	return &MemoryFilter{
		seen: make(map[string]time.Time),
		ttl:  ttl,
	}
}

// IsNew records the message id and reports whether this is its first
// non-expired sighting.
func (f *MemoryFilter) IsNew(ctx context.Context, messageID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	f.ops++
	if f.ops%sweepInterval == 0 {
		f.sweep(now)
	}

	if expiry, ok := f.seen[messageID]; ok && now.Before(expiry) {
		return false, nil
	}
	f.seen[messageID] = now.Add(f.ttl)
	return true, nil
}

// sweep removes all expired entries. Callers must hold the mutex.
func (f *MemoryFilter) sweep(now time.Time) {
	for id, expiry := range f.seen {
		if !now.Before(expiry) {
			delete(f.seen, id)
		}
	}
}
