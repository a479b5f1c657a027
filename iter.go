package pigeonhole

import "iter"

// All yields every live id with a pointer to its value, in ascending id order.
// Vacant and reserved slots are skipped. Pointers follow the GetMut rules.
func (a *Arena[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range a.slots {
			s := &a.slots[i]
			if !s.used() {
				continue
			}

			if !yield(i, &s.value) {
				return
			}
		}
	}
}

// Values yields a copy of every live value in ascending id order.
func (a *Arena[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range a.All() {
			if !yield(*v) {
				return
			}
		}
	}
}

// IDs yields every live id in ascending order.
func (a *Arena[T]) IDs() iter.Seq[int] {
	return func(yield func(int) bool) {
		for id := range a.All() {
			if !yield(id) {
				return
			}
		}
	}
}

// Drain empties the arena and returns its live values in ascending id order.
// The arena is left with no slots and can be reused right away; the returned
// sequence reads from the detached storage.
func (a *Arena[T]) Drain() iter.Seq[T] {
	slots := a.slots

	a.slots = nil
	a.free = noSlot
	a.size = 0
	a.reserved = 0
	a.epoch++

	return func(yield func(T) bool) {
		for i := range slots {
			if !slots[i].used() {
				continue
			}

			if !yield(slots[i].value) {
				return
			}
		}
	}
}

// FreeList walks the free list from its head, most recently freed id first.
func (a *Arena[T]) FreeList() iter.Seq[int] {
	return func(yield func(int) bool) {
		for id := a.free; id != noSlot; id = a.slots[id].next {
			if !yield(id) {
				return
			}
		}
	}
}
