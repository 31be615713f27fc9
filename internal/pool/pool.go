// Package pool implements the fixed-capacity LIFO object pool described in
// spec §3 "Pool" and §5 "Pool discipline". It is intentionally generic so
// that field, towerfield and bigint can each keep one pool per element
// shape without re-deriving the same bookkeeping.
//
// A Pool is not safe for concurrent use: the design is single-threaded per
// scheme instance (spec §5), and pools are owned by a field/bigint handle,
// not shared across goroutines.
package pool

import "github.com/nume-crypto/isogs/schemeerr"

// Pool is a fixed-capacity LIFO of *T. New elements are produced by the
// factory when the pool is empty; Release silently drops the element
// instead of growing the pool past capacity.
type Pool[T any] struct {
	items   []*T
	cap     int
	factory func() *T
	closed  bool

	// outstanding tracks elements that have been Acquired but not yet
	// Released, keyed by pointer identity, to catch double-release in
	// debug builds (spec: "Double-release is a program error and must be
	// caught in debug builds").
	outstanding map[*T]struct{}
	debug       bool
}

// New builds a pool with the given capacity and zero-value factory.
func New[T any](capacity int, factory func() *T) *Pool[T] {
	return &Pool[T]{
		items:       make([]*T, 0, capacity),
		cap:         capacity,
		factory:     factory,
		outstanding: make(map[*T]struct{}),
		debug:       true,
	}
}

// Acquire returns a blank-or-recycled *T. Its contents may hold arbitrary
// data from a previous use; callers must initialize before first read, per
// spec §5's "Borrow returns a usable element" rule.
func (p *Pool[T]) Acquire() (*T, error) {
	if p.closed {
		return nil, schemeerr.Poolf("pool.Acquire", "acquire on closed pool")
	}
	var t *T
	if n := len(p.items); n > 0 {
		t = p.items[n-1]
		p.items = p.items[:n-1]
	} else {
		t = p.factory()
	}
	if p.debug {
		p.outstanding[t] = struct{}{}
	}
	return t, nil
}

// Release returns t to the pool if capacity allows; otherwise it is
// dropped. Releasing an element not currently outstanding (a double
// release, or aliasing) is a PoolError in debug builds.
func (p *Pool[T]) Release(t *T) error {
	if t == nil {
		return nil
	}
	if p.debug {
		if _, ok := p.outstanding[t]; !ok {
			return schemeerr.Poolf("pool.Release", "double release or release of unborrowed element")
		}
		delete(p.outstanding, t)
	}
	if len(p.items) >= p.cap {
		return nil // dropped, capacity exhausted
	}
	p.items = append(p.items, t)
	return nil
}

// Close marks the pool closed; subsequent Acquire calls fail.
func (p *Pool[T]) Close() { p.closed = true }

// Len reports the number of elements currently parked in the pool.
func (p *Pool[T]) Len() int { return len(p.items) }

// Cap reports the pool's fixed capacity.
func (p *Pool[T]) Cap() int { return p.cap }
