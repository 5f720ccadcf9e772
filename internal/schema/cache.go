package schema

import "sync"

// Cache memoizes compiled schemas per Model. The first caller for a model
// compiles it; concurrent callers for the same model wait for that result.
// Failures are cached too, since compilation is deterministic.
//
// The zero value is ready to use.
type Cache struct {
	mu      sync.Mutex
	entries map[*Model]*cacheEntry
}

type cacheEntry struct {
	once     sync.Once
	compiled *Compiled
	err      error
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the compiled form of m, compiling it at most once.
func (c *Cache) Get(m *Model) (*Compiled, error) {
	c.mu.Lock()
	if c.entries == nil {
		c.entries = make(map[*Model]*cacheEntry)
	}
	entry, ok := c.entries[m]
	if !ok {
		entry = &cacheEntry{}
		c.entries[m] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.compiled, entry.err = Compile(m)
	})
	return entry.compiled, entry.err
}

// Len reports how many models have been requested.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
