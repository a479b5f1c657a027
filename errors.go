package pigeonhole

import "errors"

var (
	// ErrNotFound is returned by Remove when the id holds no live value.
	ErrNotFound = errors.New("pigeonhole: no value at id")

	// ErrReservationClosed is returned when committing a reservation that was
	// already committed or aborted.
	ErrReservationClosed = errors.New("pigeonhole: reservation closed")

	// ErrReservationPending is returned when a snapshot is requested while a
	// reservation is outstanding.
	ErrReservationPending = errors.New("pigeonhole: reservation pending")

	// ErrCorruptSnapshot is returned when a snapshot cannot be decoded into a
	// consistent arena.
	ErrCorruptSnapshot = errors.New("pigeonhole: corrupt snapshot")
)
