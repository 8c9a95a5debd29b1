package build

import (
	"sync"
	"time"
)

// Result is the immutable outcome of one successful component build.
// A re-build produces a new Result; existing values are never mutated.
type Result struct {
	Component string
	ImageRef  string // deterministic name:version tag
	Digest    string // content digest in the build namespace
	Duration  time.Duration
	LogTail   string // trailing build tool output, for diagnostics
}

// Cache holds build results for reuse across operations within one process.
// It is populated by build, read by setup and validate, and discarded at
// process exit; nothing is persisted.
type Cache struct {
	mu      sync.RWMutex
	results map[string]*Result
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{results: make(map[string]*Result)}
}

// Put stores a result, replacing any previous result for the component.
func (c *Cache) Put(res *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[res.Component] = res
}

// Get returns the cached result for a component, if any.
func (c *Cache) Get(component string) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.results[component]
	return res, ok
}

// Snapshot returns a copy of the current component→result map.
func (c *Cache) Snapshot() map[string]*Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*Result, len(c.results))
	for name, res := range c.results {
		out[name] = res
	}
	return out
}
