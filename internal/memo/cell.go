// Package memo provides a write-once cell for lazily derived values.
package memo

import "sync/atomic"

// Cell holds a value that is computed on first use and never replaced.
//
// Concurrent first calls may each run the build function. Exactly one result
// is published with a compare-and-set; every caller, including the losers of
// the race, returns the published value.
//
// A Cell must not be copied after first use.
type Cell[T any] struct {
	p atomic.Pointer[T]
}

// Get returns the published value, building and publishing it if the cell is empty.
func (c *Cell[T]) Get(build func() *T) *T {
	if v := c.p.Load(); v != nil {
		return v
	}
	v := build()
	if c.p.CompareAndSwap(nil, v) {
		return v
	}
	return c.p.Load()
}

// Peek returns the published value or nil.
func (c *Cell[T]) Peek() *T {
	return c.p.Load()
}
