package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/application/fulfillment"
)

// entry represents a held dispatch slot with expiration
type entry struct {
	expiresAt time.Time
}

// InMemoryDispatchGuard implements fulfillment.DispatchGuard using an
// in-memory map. This is suitable for single-instance deployments and testing.
type InMemoryDispatchGuard struct {
	mu        sync.Mutex
	ttl       time.Duration
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryDispatchGuard creates a new in-memory dispatch guard.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryDispatchGuard(ttl time.Duration) *InMemoryDispatchGuard {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	guard := &InMemoryDispatchGuard{
		ttl:      ttl,
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	guard.wg.Add(1)
	go guard.cleanupLoop()

	return guard
}

// TryAcquire claims the dispatch slot for a remote order.
// Returns true if the slot was newly claimed, false if it is already held.
func (g *InMemoryDispatchGuard) TryAcquire(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) (bool, error) {
	key := guardKey(tenantID, remoteOrderID)

	g.mu.Lock()
	defer g.mu.Unlock()

	if e, exists := g.entries[key]; exists && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	g.entries[key] = entry{expiresAt: time.Now().Add(g.ttl)}
	return true, nil
}

// Release frees the dispatch slot
func (g *InMemoryDispatchGuard) Release(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) {
	key := guardKey(tenantID, remoteOrderID)

	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, key)
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (g *InMemoryDispatchGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (g *InMemoryDispatchGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

// cleanup removes expired entries from the guard
func (g *InMemoryDispatchGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for key, e := range g.entries {
		if now.After(e.expiresAt) {
			delete(g.entries, key)
		}
	}
}

// Size returns the number of held slots (for testing/monitoring)
func (g *InMemoryDispatchGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// guardKey builds the storage key for one remote order's dispatch slot
func guardKey(tenantID uuid.UUID, remoteOrderID string) string {
	return tenantID.String() + ":" + remoteOrderID
}

// Ensure InMemoryDispatchGuard implements DispatchGuard
var _ fulfillment.DispatchGuard = (*InMemoryDispatchGuard)(nil)
