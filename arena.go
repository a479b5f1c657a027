// Package pigeonhole provides Arena, a slot-based container that hands out
// small integer ids for the values it stores. It is the building block for
// slot maps, entity id tables and graph node pools.
package pigeonhole

import (
	"context"
	"fmt"
	"log/slog"
)

// Arena stores values of a single type in numbered slots and hands back the
// slot number as an id. Vacated slots are threaded into a free list inside the
// backing slice and recycled by later inserts, most recently freed first.
//
// Ids are not versioned. Once an id is removed and reused, the old id refers
// to the new occupant.
//
// Arena is not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  int

	size     int
	reserved int
	growths  int

	// Bumped by Reset and Drain so stale reservations can tell.
	epoch uint64

	policy GrowthPolicy
	logger *slog.Logger
}

// New returns an empty arena: no slots and an empty free list.
func New[T any](opts ...Option) *Arena[T] {
	var a Arena[T]
	a.init(opts...)

	return &a
}

func (a *Arena[T]) init(opts ...Option) {
	var c config
	for _, opt := range opts {
		opt(&c)
	}

	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	if c.capacity > 0 {
		a.slots = make([]slot[T], 0, NextPowerOf2(uint32(c.capacity)))
	}

	a.free = noSlot
	a.policy = c.policy
	a.logger = c.logger
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.size
}

// Slots returns the number of slots in the backing storage, live or not.
func (a *Arena[T]) Slots() int {
	return len(a.slots)
}

// Insert stores value and returns its id.
func (a *Arena[T]) Insert(value T) int {
	id := a.take()
	a.slots[id].fill(value)
	a.size++

	return id
}

// Get returns a copy of the value stored at id.
func (a *Arena[T]) Get(id int) (T, bool) {
	if s := a.lookup(id); s != nil {
		return s.value, true
	}

	var zero T
	return zero, false
}

// GetMut returns a pointer to the value stored at id. The pointer is only
// valid until the next call that may grow the arena.
func (a *Arena[T]) GetMut(id int) (*T, bool) {
	if s := a.lookup(id); s != nil {
		return &s.value, true
	}

	return nil, false
}

// Contains reports whether id holds a live value.
func (a *Arena[T]) Contains(id int) bool {
	return a.lookup(id) != nil
}

// Remove takes the value out of id and puts the slot at the front of the free
// list. Removing a vacant or unknown id returns ErrNotFound and leaves the
// arena untouched.
func (a *Arena[T]) Remove(id int) (T, error) {
	s := a.lookup(id)
	if s == nil {
		var zero T
		return zero, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	value := s.value
	s.vacate(a.free)
	a.free = id
	a.size--

	return value, nil
}

// Reset vacates every slot while keeping the backing storage. The free list is
// rebuilt in ascending id order. Outstanding reservations become invalid.
func (a *Arena[T]) Reset() {
	for i := range a.slots {
		a.slots[i].vacate(i + 1)
	}

	if n := len(a.slots); n > 0 {
		a.slots[n-1].next = noSlot
		a.free = 0
	} else {
		a.free = noSlot
	}

	a.size = 0
	a.reserved = 0
	a.epoch++
}

func (a *Arena[T]) lookup(id int) *slot[T] {
	if id < 0 || id >= len(a.slots) {
		return nil
	}

	s := &a.slots[id]
	if !s.used() {
		return nil
	}

	return s
}

// take unlinks the free list head and returns it, growing first if the list
// is empty. The returned slot is neither free nor used; the caller sets it.
func (a *Arena[T]) take() int {
	if a.free == noSlot {
		a.grow()
	}

	id := a.free
	a.free = a.slots[id].next
	a.slots[id].next = noSlot

	return id
}

// grow appends a freshly linked chain of free slots and points the head at
// its first element. Only called with an empty free list.
func (a *Arena[T]) grow() {
	from := len(a.slots)

	n := 1
	if a.policy == GrowDoubling {
		n = from + 1
	}

	for i := range n {
		next := from + i + 1
		if i == n-1 {
			next = noSlot
		}

		a.slots = append(a.slots, slot[T]{next: next})
	}

	a.free = from
	a.growths++

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "arena grown",
		slog.Int("from", from),
		slog.Int("to", len(a.slots)),
		slog.String("policy", a.policy.String()),
	)
}
