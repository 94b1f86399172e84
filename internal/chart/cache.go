package chart

import (
	"encoding/json"
	"sync"
	"time"
)

// Default sizing for a ResultCache.
const (
	DefaultCacheTTL     = 5 * time.Minute
	DefaultCacheEntries = 50
)

// resultEntry is one cached transform result. The payload is stored
// serialized so reads can hand out independent copies.
type resultEntry struct {
	insertedAt  time.Time
	fingerprint string
	payload     []byte
	ttl         time.Duration
}

// ResultCache memoizes transform results keyed by fingerprint, with per-entry
// TTL expiry and a bound on entry count (oldest-inserted evicted first).
// It is an explicit object rather than package state: whoever composes the
// pipeline constructs one and passes it to consumers, so tests get isolated
// instances.
//
// Payloads round-trip through JSON; Get returns a fresh copy every time, so
// callers may mutate results freely without corrupting the cache.
type ResultCache[T any] struct {
	entries    []resultEntry
	ttl        time.Duration
	maxEntries int
	disabled   bool
	mu         sync.Mutex
}

// NewResultCache creates a cache with the given default TTL and maximum
// entry count. Non-positive arguments fall back to the package defaults.
func NewResultCache[T any](ttl time.Duration, maxEntries int) *ResultCache[T] {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &ResultCache[T]{ttl: ttl, maxEntries: maxEntries}
}

// Get returns a deep copy of the payload cached under fingerprint, if one
// exists and has not expired. Expiry is checked lazily here; no background
// timer runs.
func (c *ResultCache[T]) Get(fingerprint string) (T, bool) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled {
		return zero, false
	}

	now := time.Now()
	for _, e := range c.entries {
		if e.fingerprint != fingerprint {
			continue
		}
		if now.Sub(e.insertedAt) >= e.ttl {
			return zero, false
		}
		var out T
		if err := json.Unmarshal(e.payload, &out); err != nil {
			return zero, false
		}
		return out, true
	}
	return zero, false
}

// Set stores a payload under fingerprint with the default TTL, replacing any
// existing entry with the same fingerprint and evicting the oldest entries
// past the size bound. A no-op while the cache is disabled.
func (c *ResultCache[T]) Set(fingerprint string, payload T) {
	c.SetWithTTL(fingerprint, payload, c.ttl)
}

// SetWithTTL stores a payload with an explicit TTL.
func (c *ResultCache[T]) SetWithTTL(fingerprint string, payload T, ttl time.Duration) {
	serialized, err := json.Marshal(payload)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled {
		return
	}

	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.fingerprint != fingerprint {
			kept = append(kept, e)
		}
	}
	c.entries = kept

	// Newest first; truncation drops the oldest-inserted entries.
	c.entries = append([]resultEntry{{
		fingerprint: fingerprint,
		payload:     serialized,
		insertedAt:  time.Now(),
		ttl:         ttl,
	}}, c.entries...)
	if len(c.entries) > c.maxEntries {
		c.entries = c.entries[:c.maxEntries]
	}
}

// ClearExpired removes every entry whose age exceeds its own TTL.
func (c *ResultCache[T]) ClearExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	kept := c.entries[:0]
	for _, e := range c.entries {
		if now.Sub(e.insertedAt) < e.ttl {
			kept = append(kept, e)
		}
	}
	c.entries = kept
}

// Clear drops all entries.
func (c *ResultCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// Disable makes Get always miss and Set a no-op without dropping stored
// entries; Enable brings them back into service.
func (c *ResultCache[T]) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = true
}

// Enable reactivates a disabled cache.
func (c *ResultCache[T]) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = false
}

// Len returns the number of stored entries, expired or not.
func (c *ResultCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
