package payment

import (
	"sync"
	"time"
)

// Result is one resolved generation: the payload string for a channel and,
// when rendering succeeded, the QR image bytes. RenderFailed marks a
// degraded text-only result.
type Result struct {
	Channel      Channel   `json:"channel"`
	Payload      string    `json:"payload"`
	Image        []byte    `json:"image,omitempty"`
	RenderFailed bool      `json:"renderFailed"`
	ResolvedAt   time.Time `json:"resolvedAt"`
}

// Cache holds generation results keyed by (channel, payload). Keys embed the
// payload value, so a changed store field produces a fresh key and the stale
// entry simply ages out of use. In-flight generations write disjoint keys;
// the most recent resolve for a key wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]Result
}

type cacheKey struct {
	channel Channel
	payload string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]Result)}
}

// Get returns the cached result for the channel and payload, if resolved.
func (c *Cache) Get(channel Channel, payload string) (Result, bool) {
	if c == nil {
		return Result{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.entries[cacheKey{channel: channel, payload: payload}]
	return result, ok
}

// Put stores a resolved result, overwriting any stale value for the key.
func (c *Cache) Put(result Result) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{channel: result.Channel, payload: result.Payload}] = result
}
