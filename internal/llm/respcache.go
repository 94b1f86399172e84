package llm

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Response cache defaults.
const (
	DefaultResponseTTL     = time.Hour
	DefaultResponseEntries = 20

	// similarityThreshold is the minimum score at which a cached answer is
	// reused for a new prompt.
	similarityThreshold = 0.6
)

// CachedResponse is one previously answered prompt.
type CachedResponse struct {
	CachedAt   time.Time `json:"cached_at"`
	Prompt     string    `json:"prompt"`
	Model      string    `json:"model"`
	Response   string    `json:"response"`
	TokensUsed int       `json:"tokens_used"`
}

// CacheStore persists cached responses across process restarts. Load and
// Save failures are tolerated: the cache logs them and keeps working in
// memory.
type CacheStore interface {
	LoadResponses(ctx context.Context) ([]CachedResponse, error)
	SaveResponses(ctx context.Context, responses []CachedResponse) error
}

// ResponseCache avoids redundant model invocations for semantically similar
// prompts. Entries are kept newest first, bounded in count, expired by TTL,
// and looked up by textual similarity rather than exact match.
type ResponseCache struct {
	store      CacheStore
	entries    []CachedResponse
	ttl        time.Duration
	maxEntries int
	mu         sync.Mutex
}

// NewResponseCache creates a response cache backed by an optional store.
// Previously persisted entries are loaded and swept for expiry; a failed
// load simply starts the cache empty.
func NewResponseCache(ctx context.Context, store CacheStore, ttl time.Duration, maxEntries int) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultResponseTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultResponseEntries
	}

	c := &ResponseCache{
		store:      store,
		ttl:        ttl,
		maxEntries: maxEntries,
	}

	if store != nil {
		entries, err := store.LoadResponses(ctx)
		if err != nil {
			slog.Warn("Failed to load response cache, starting empty", "error", err)
		} else {
			c.entries = entries
		}
	}
	c.ClearExpired(ctx)

	return c
}

// Cache stores a successful model response at the front of the list,
// evicting the oldest entry past the size bound, and persists the list.
func (c *ResponseCache) Cache(ctx context.Context, prompt, model, response string, tokensUsed int) {
	c.mu.Lock()

	c.entries = append([]CachedResponse{{
		Prompt:     prompt,
		Model:      model,
		Response:   response,
		TokensUsed: tokensUsed,
		CachedAt:   time.Now(),
	}}, c.entries...)
	if len(c.entries) > c.maxEntries {
		c.entries = c.entries[:c.maxEntries]
	}

	snapshot := make([]CachedResponse, len(c.entries))
	copy(snapshot, c.entries)
	c.mu.Unlock()

	c.persist(ctx, snapshot)
}

// Find looks for a cached answer to a prompt. Only unexpired entries for
// the same model are considered; the first entry scoring above the
// similarity threshold wins.
func (c *ResponseCache) Find(prompt, model string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, entry := range c.entries {
		if entry.Model != model {
			continue
		}
		if now.Sub(entry.CachedAt) > c.ttl {
			continue
		}
		if Similarity(prompt, entry.Prompt) > similarityThreshold {
			return entry.Response, true
		}
	}
	return "", false
}

// ClearExpired removes entries older than the TTL and persists the result.
// This sweep is independent of the size bound and runs on load and on
// demand.
func (c *ResponseCache) ClearExpired(ctx context.Context) {
	c.mu.Lock()

	now := time.Now()
	kept := c.entries[:0]
	removed := false
	for _, entry := range c.entries {
		if now.Sub(entry.CachedAt) <= c.ttl {
			kept = append(kept, entry)
		} else {
			removed = true
		}
	}
	c.entries = kept

	var snapshot []CachedResponse
	if removed {
		snapshot = make([]CachedResponse, len(c.entries))
		copy(snapshot, c.entries)
	}
	c.mu.Unlock()

	if removed {
		c.persist(ctx, snapshot)
	}
}

// Len returns the number of cached entries.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResponseCache) persist(ctx context.Context, snapshot []CachedResponse) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveResponses(ctx, snapshot); err != nil {
		slog.Warn("Failed to persist response cache", "error", err)
	}
}
