package pigeonhole

import "github.com/RoaringBitmap/roaring/v2/roaring64"

// Occupied returns a bitmap of the live ids. The bitmap is a copy; later
// changes to the arena are not reflected in it.
func (a *Arena[T]) Occupied() *roaring64.Bitmap {
	bm := roaring64.New()
	for id := range a.IDs() {
		bm.Add(uint64(id))
	}

	bm.RunOptimize()

	return bm
}
