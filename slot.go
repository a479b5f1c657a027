package pigeonhole

// noSlot terminates the free list and marks an empty head.
const noSlot = -1

type slotState uint8

const (
	slotFree slotState = iota
	slotUsed
	// Handed out by Reserve: off the free list, invisible to lookups.
	slotReserved
)

// slot is one pigeonhole. Only one of value and next is meaningful,
// depending on state:
//
//	slotFree     - next links to the following vacant slot (noSlot at the tail)
//	slotUsed     - value holds the live element
//	slotReserved - neither, the slot waits for Commit or Abort
type slot[T any] struct {
	value T
	next  int
	state slotState
}

func (s *slot[T]) used() bool {
	return s.state == slotUsed
}

// vacate turns the slot into a free list node pointing at next and drops the
// stored value so it can be collected.
func (s *slot[T]) vacate(next int) {
	var zero T

	s.value = zero
	s.next = next
	s.state = slotFree
}

func (s *slot[T]) fill(value T) {
	s.value = value
	s.next = noSlot
	s.state = slotUsed
}
