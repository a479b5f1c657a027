package pigeonhole

import "fmt"

// Reservation is an allocated slot that has an id but no value yet. It lets a
// value embed its own id, or lets cyclic structures be wired up before they
// are stored.
//
// While a reservation is open the caller owns the arena: no other operation
// may be issued through it until Commit or Abort. Defer Abort right after
// Reserve so every exit path releases the slot:
//
//	r := a.Reserve()
//	defer r.Abort()
//
//	node := newNode(r.ID())
//	return r.Commit(node)
type Reservation[T any] struct {
	arena *Arena[T]
	id    int
	epoch uint64
	done  bool
}

// Reserve allocates a slot the same way Insert does and leaves it pending.
func (a *Arena[T]) Reserve() *Reservation[T] {
	id := a.take()
	a.slots[id].state = slotReserved
	a.reserved++

	return &Reservation[T]{arena: a, id: id, epoch: a.epoch}
}

// ID returns the reserved id. It is usable before the value is committed.
func (r *Reservation[T]) ID() int {
	return r.id
}

// Commit stores value in the reserved slot, making the id a regular live id.
func (r *Reservation[T]) Commit(value T) error {
	if r.done || !r.pending() {
		return fmt.Errorf("%w: commit %d", ErrReservationClosed, r.id)
	}

	r.done = true

	a := r.arena
	a.slots[r.id].fill(value)
	a.reserved--
	a.size++

	return nil
}

// Abort returns the reserved slot to the front of the free list. It is a no-op
// once the reservation was committed or aborted.
func (r *Reservation[T]) Abort() {
	if r.done {
		return
	}

	r.done = true

	// Reset or Drain may have recycled the slot already.
	if !r.pending() {
		return
	}

	a := r.arena
	a.slots[r.id].vacate(a.free)
	a.free = r.id
	a.reserved--
}

func (r *Reservation[T]) pending() bool {
	a := r.arena
	return a.epoch == r.epoch && a.slots[r.id].state == slotReserved
}

// InsertFunc reserves a slot, hands its id to fn and stores what fn returns.
// If fn fails or panics the slot is released and nothing is stored.
func (a *Arena[T]) InsertFunc(fn func(id int) (T, error)) (int, error) {
	r := a.Reserve()
	defer r.Abort()

	value, err := fn(r.id)
	if err != nil {
		return noSlot, err
	}

	if err := r.Commit(value); err != nil {
		return noSlot, err
	}

	return r.id, nil
}
