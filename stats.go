package pigeonhole

// Stats is a point-in-time view of an arena's occupancy.
type Stats struct {
	Size     int
	Slots    int
	Free     int
	Reserved int
	Growths  int

	LoadFactor float32
	FreeRatio  float32
}

// Stats returns the current occupancy counters.
func (a *Arena[T]) Stats() Stats {
	st := Stats{
		Size:     a.size,
		Slots:    len(a.slots),
		Free:     len(a.slots) - a.size - a.reserved,
		Reserved: a.reserved,
		Growths:  a.growths,
	}

	if st.Slots > 0 {
		st.LoadFactor = float32(st.Size) / float32(st.Slots)
		st.FreeRatio = float32(st.Free) / float32(st.Slots)
	}

	return st
}
