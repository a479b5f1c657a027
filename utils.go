package pigeonhole

import (
	"math/bits"
	"unsafe"
)

// Returns the next power of 2 for the given value `v`.
func NextPowerOf2(v uint32) uint32 {
	return uint32(1) << min(bits.Len32(v-1), 31)
}

// Estimates how many slots holding T fit in the given memory size in bytes.
func CapacityFromSize[T any](size uintptr) int {
	sizeOfSlot := unsafe.Sizeof(slot[T]{})

	return int(size / sizeOfSlot)
}
