// Package idempotency implements the engine's in-memory idempotency
// cache: a transaction_id maps to either a "processing" sentinel or the
// terminal response, with a 24h TTL swept on every store.
package idempotency

import (
	"sync"
	"time"

	"github.com/santiagosierra-yuno/flexipay-fallback-engine/pkg/processor"
)

// DefaultTTL is the entry lifetime from store time.
const DefaultTTL = 24 * time.Hour

type entryKind int

const (
	kindProcessing entryKind = iota
	kindTerminal
)

type entry struct {
	kind     entryKind
	response processor.Response
	storedAt time.Time
}

// Cache is the engine's idempotency store. Entries older than ttl (from
// store time) are evicted on every StoreAndEvict call; there is no background
// sweeper, matching the source's "sweep on every store" discipline.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
}

// New constructs an empty cache with the given TTL.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Lookup is the result of CheckAndClaim.
type Lookup int

const (
	// Cached means a non-expired terminal response was found; the caller
	// must return it unchanged without doing any work.
	Cached Lookup = iota
	// Claimed means no cached terminal response exists and the caller
	// should proceed to do the work. If the entry was absent or expired, a
	// new "processing" sentinel was just written; if a live "processing"
	// sentinel from a concurrent caller was found, it is left as it is.
	// Concurrent claims on the same id are accepted (TOCTOU) rather than
	// single-flighted: both callers proceed and the last StoreAndEvict wins.
	Claimed
)

// CheckAndClaim performs the engine's single atomic idempotency check.
func (c *Cache) CheckAndClaim(transactionID string) (Lookup, processor.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if e, ok := c.entries[transactionID]; ok && now.Sub(e.storedAt) < c.ttl {
		if e.kind == kindTerminal {
			return Cached, e.response
		}
		// A "processing" sentinel exists and is not expired: proceed as an
		// independent processor of the same id rather than blocking.
		return Claimed, processor.Response{}
	}

	c.entries[transactionID] = entry{kind: kindProcessing, storedAt: now}
	return Claimed, processor.Response{}
}

// StoreAndEvict replaces the sentinel (or absent entry) for transactionID
// with the terminal response, then sweeps every entry older than ttl.
func (c *Cache) StoreAndEvict(transactionID string, response processor.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.entries[transactionID] = entry{kind: kindTerminal, response: response, storedAt: now}

	for id, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, id)
		}
	}
}

// Size returns the current entry count, for observability/tests.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
