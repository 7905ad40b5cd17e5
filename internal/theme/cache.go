package theme

import (
	"sync"
	"time"
)

// CachedStatus is a previously fetched status with explicit validity window.
type CachedStatus struct {
	Status    Status
	StoredAt  time.Time
	ExpiresAt time.Time
}

// StatusCache keeps one recent Status per player so repeated status requests
// within the reuse window skip the store round trips. The window is an
// explicit StoredAt/ExpiresAt pair, not hidden module state.
type StatusCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]CachedStatus
}

func NewStatusCache(ttl time.Duration) *StatusCache {
	return &StatusCache{ttl: ttl, entries: make(map[string]CachedStatus)}
}

// Get returns the cached status if it has not expired.
func (c *StatusCache) Get(playerID string, now time.Time) (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[playerID]
	if !ok || now.After(entry.ExpiresAt) {
		delete(c.entries, playerID)
		return Status{}, false
	}
	return entry.Status, true
}

// Put stores a freshly fetched status.
func (c *StatusCache) Put(playerID string, status Status, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[playerID] = CachedStatus{
		Status:    status,
		StoredAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}
}

// Invalidate drops a player's cached status, used after a new guess.
func (c *StatusCache) Invalidate(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, playerID)
}
