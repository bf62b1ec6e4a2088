package query

import (
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a computed answer stays fresh.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	text       string
	computedAt time.Time
}

// ResponseCache is a TTL cache of answers keyed by normalized query text.
// Expired entries are evicted lazily on the next lookup for their key; there
// is no background sweep. Safe for concurrent use — the relay serves HTTP and
// bot traffic from multiple goroutines.
type ResponseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewResponseCache creates a cache with the given TTL (<= 0 uses the default).
func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResponseCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// NormalizeKey is the canonical cache key for a query.
func NormalizeKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Get returns the cached text for key if still fresh, evicting it when stale.
func (c *ResponseCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(e.computedAt) > c.ttl {
		delete(c.entries, key)
		return "", false
	}
	return e.text, true
}

// Put stores text under key, overwriting any previous entry.
func (c *ResponseCache) Put(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{text: text, computedAt: c.now()}
}
