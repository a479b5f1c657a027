package pigeonhole

import "unsafe"

// unsafeConvertSlice reinterprets a slice whose element type is known to be
// identical to Dest, used by the generic value generators.
//
//go:nocheckptr
func unsafeConvertSlice[Dest any, Src any](s []Src) []Dest {
	return unsafe.Slice((*Dest)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}
