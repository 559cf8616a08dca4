// Package page implements the cursor-based "load more" protocol shared
// by every independently paginated collection.
package page

import "sync"

// Token stamps one fetch with the controller generation it was started
// under. A response whose token is stale must be discarded unmerged.
type Token struct {
	Cursor     string
	Filter     string
	generation uint64
}

// Controller tracks pagination position and filter for one collection.
// Changing the filter, or starting a fresh uncursored load, bumps the
// generation and thereby invalidates every in-flight fetch.
type Controller struct {
	mu         sync.Mutex
	generation uint64
	filter     string
}

func NewController() *Controller {
	return &Controller{}
}

// SetFilter records a new filter value. Returns true when the value
// changed, in which case the caller should restart from an uncursored
// fetch. Debouncing filter changes is the caller's concern.
func (c *Controller) SetFilter(filter string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filter == filter {
		return false
	}
	c.filter = filter
	c.generation++
	return true
}

func (c *Controller) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Begin stamps a fetch. An empty cursor marks a fresh load, which
// supersedes any fetch still in flight.
func (c *Controller) Begin(cursor string) Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cursor == "" {
		c.generation++
	}
	return Token{Cursor: cursor, Filter: c.filter, generation: c.generation}
}

// Accept reports whether a response for the given token is still
// current and safe to merge.
func (c *Controller) Accept(token Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return token.generation == c.generation
}

// Reset clears filter and position, invalidating all in-flight work.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = ""
	c.generation++
}

// Merge applies the page merge policy: a fetch without a cursor
// replaces the held collection, a fetch with one appends, skipping any
// item whose key is already held.
func Merge[T any](held, incoming []T, cursor string, key func(T) string) []T {
	if cursor == "" {
		return append([]T(nil), incoming...)
	}
	seen := make(map[string]bool, len(held))
	for _, item := range held {
		seen[key(item)] = true
	}
	merged := append([]T(nil), held...)
	for _, item := range incoming {
		if seen[key(item)] {
			continue
		}
		seen[key(item)] = true
		merged = append(merged, item)
	}
	return merged
}
