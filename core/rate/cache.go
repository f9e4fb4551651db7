package rate

import "sync"

// ProfileCache is a small bounded cache for profile-to-rate lookups, keyed by
// profile name. It avoids refetching the same PPP profile for every secret
// that references it. Eviction is by recency: when full, the least recently
// used entry is dropped.
type ProfileCache struct {
	mu       sync.Mutex
	capacity int
	values   map[string]string
	recency  []string // keys ordered oldest to newest
}

// NewProfileCache creates a cache holding at most capacity entries.
// A capacity of zero or less falls back to 32.
func NewProfileCache(capacity int) *ProfileCache {
	if capacity <= 0 {
		capacity = 32
	}
	return &ProfileCache{
		capacity: capacity,
		values:   make(map[string]string, capacity),
	}
}

// Get returns the cached rate text for a profile and marks it recently used.
func (c *ProfileCache) Get(profile string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.values[profile]
	if ok {
		c.touch(profile)
	}
	return v, ok
}

// Put stores the rate text for a profile, evicting the least recently used
// entry if the cache is full.
func (c *ProfileCache) Put(profile, rateText string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.values[profile]; !exists && len(c.values) >= c.capacity {
		oldest := c.recency[0]
		c.recency = c.recency[1:]
		delete(c.values, oldest)
	}

	c.values[profile] = rateText
	c.touch(profile)
}

// Flush empties the cache. Called at the start of each cycle so profile
// edits on the router are picked up within one scan interval.
func (c *ProfileCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = make(map[string]string, c.capacity)
	c.recency = c.recency[:0]
}

// Len returns the number of cached profiles.
func (c *ProfileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

func (c *ProfileCache) touch(profile string) {
	for i, k := range c.recency {
		if k == profile {
			c.recency = append(c.recency[:i], c.recency[i+1:]...)
			break
		}
	}
	c.recency = append(c.recency, profile)
}
