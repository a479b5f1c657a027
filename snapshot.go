package pigeonhole

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bits-and-blooms/bitset"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/homier/pigeonhole/codec"
)

// Compression selects how the snapshot body is compressed.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

const (
	snapshotVersion = 1

	// Upper bound for a single encoded value, guards allocations on bad input.
	maxSnapshotValue = 64 << 20
)

var snapshotMagic = [4]byte{'P', 'G', 'N', 'H'}

// SnapshotOption configures WriteSnapshot and ReadSnapshot.
type SnapshotOption func(c *snapshotConfig)

type snapshotConfig struct {
	codec       codec.Codec
	compression Compression
	arenaOpts   []Option
}

// WithCodec sets the value codec. On read, the snapshot must have been
// written with a codec of the same name.
func WithCodec(c codec.Codec) SnapshotOption {
	return func(sc *snapshotConfig) {
		sc.codec = c
	}
}

// WithCompression sets the body compression used by WriteSnapshot.
// ReadSnapshot takes it from the header.
func WithCompression(c Compression) SnapshotOption {
	return func(sc *snapshotConfig) {
		sc.compression = c
	}
}

// WithArenaOptions passes options to the arena built by ReadSnapshot.
func WithArenaOptions(opts ...Option) SnapshotOption {
	return func(sc *snapshotConfig) {
		sc.arenaOpts = append(sc.arenaOpts, opts...)
	}
}

func newSnapshotConfig(opts []SnapshotOption) snapshotConfig {
	sc := snapshotConfig{compression: CompressionZstd}
	for _, opt := range opts {
		opt(&sc)
	}

	return sc
}

// WriteSnapshot writes the arena to w. The snapshot keeps every slot, so the
// restored arena has the same ids and the same free list order.
//
// Header: magic "PGNH", version, compression, codec name length, codec name.
// Body: slot count, free head+1, then per slot its state followed by either
// next+1 (free) or a length-prefixed encoded value (used).
func (a *Arena[T]) WriteSnapshot(w io.Writer, opts ...SnapshotOption) error {
	if a.reserved > 0 {
		return fmt.Errorf("%w: %d outstanding", ErrReservationPending, a.reserved)
	}

	sc := newSnapshotConfig(opts)

	c := sc.codec
	if c == nil {
		c = codec.Default
	}

	name := c.Name()
	if len(name) > 255 {
		return fmt.Errorf("pigeonhole: codec name too long: %d bytes", len(name))
	}

	header := make([]byte, 0, len(snapshotMagic)+3+len(name))
	header = append(header, snapshotMagic[:]...)
	header = append(header, snapshotVersion, byte(sc.compression), byte(len(name)))
	header = append(header, name...)

	if _, err := w.Write(header); err != nil {
		return err
	}

	cw, err := compressWriter(w, sc.compression)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(cw)
	if err := a.writeSlots(bw, c); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return err
	}

	if err := cw.Close(); err != nil {
		return err
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "snapshot written",
		slog.Int("slots", len(a.slots)),
		slog.Int("size", a.size),
		slog.String("codec", name),
		slog.String("compression", sc.compression.String()),
	)

	return nil
}

func (a *Arena[T]) writeSlots(w *bufio.Writer, c codec.Codec) error {
	var scratch [binary.MaxVarintLen64]byte

	putUvarint := func(v uint64) error {
		_, err := w.Write(binary.AppendUvarint(scratch[:0], v))
		return err
	}

	if err := putUvarint(uint64(len(a.slots))); err != nil {
		return err
	}

	if err := putUvarint(uint64(a.free + 1)); err != nil {
		return err
	}

	for i := range a.slots {
		s := &a.slots[i]
		if err := w.WriteByte(byte(s.state)); err != nil {
			return err
		}

		if !s.used() {
			if err := putUvarint(uint64(s.next + 1)); err != nil {
				return err
			}

			continue
		}

		data, err := c.Marshal(s.value)
		if err != nil {
			return fmt.Errorf("pigeonhole: encode id %d: %w", i, err)
		}

		if err := putUvarint(uint64(len(data))); err != nil {
			return err
		}

		if _, err := w.Write(data); err != nil {
			return err
		}
	}

	return nil
}

// ReadSnapshot restores an arena written by WriteSnapshot. The codec is picked
// by the name stored in the header unless WithCodec is given.
func ReadSnapshot[T any](r io.Reader, opts ...SnapshotOption) (*Arena[T], error) {
	sc := newSnapshotConfig(opts)

	var fixed [len(snapshotMagic) + 3]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, corrupt(err, "header")
	}

	if [4]byte(fixed[:4]) != snapshotMagic {
		return nil, corrupt(nil, "bad magic %q", fixed[:4])
	}

	if fixed[4] != snapshotVersion {
		return nil, corrupt(nil, "unsupported version %d", fixed[4])
	}

	compression := Compression(fixed[5])

	name := make([]byte, fixed[6])
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, corrupt(err, "codec name")
	}

	c, err := snapshotCodec(sc.codec, string(name))
	if err != nil {
		return nil, err
	}

	body, closeBody, err := decompressReader(r, compression)
	if err != nil {
		return nil, err
	}
	defer closeBody()

	a := New[T](sc.arenaOpts...)
	if err := a.readSlots(bufio.NewReader(body), c); err != nil {
		return nil, err
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "snapshot restored",
		slog.Int("slots", len(a.slots)),
		slog.Int("size", a.size),
		slog.String("codec", c.Name()),
		slog.String("compression", compression.String()),
	)

	return a, nil
}

func (a *Arena[T]) readSlots(r *bufio.Reader, c codec.Codec) error {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return corrupt(err, "slot count")
	}

	head, err := readLink(r, n)
	if err != nil {
		return corrupt(err, "free head")
	}

	a.slots = make([]slot[T], 0, min(n, 1<<16))
	a.free = head

	var buf []byte
	for i := uint64(0); i < n; i++ {
		state, err := r.ReadByte()
		if err != nil {
			return corrupt(err, "slot %d", i)
		}

		var s slot[T]

		switch slotState(state) {
		case slotFree:
			if s.next, err = readLink(r, n); err != nil {
				return corrupt(err, "slot %d link", i)
			}

		case slotUsed:
			size, err := binary.ReadUvarint(r)
			if err != nil {
				return corrupt(err, "slot %d length", i)
			}

			if size > maxSnapshotValue {
				return corrupt(nil, "slot %d value of %d bytes", i, size)
			}

			if uint64(cap(buf)) < size {
				buf = make([]byte, size)
			}

			buf = buf[:size]
			if _, err := io.ReadFull(r, buf); err != nil {
				return corrupt(err, "slot %d value", i)
			}

			if err := c.Unmarshal(buf, &s.value); err != nil {
				return fmt.Errorf("pigeonhole: decode id %d: %w", i, err)
			}

			s.next = noSlot
			s.state = slotUsed
			a.size++

		default:
			return corrupt(nil, "slot %d has state %d", i, state)
		}

		a.slots = append(a.slots, s)
	}

	return a.checkFreeList()
}

// checkFreeList verifies that the free list reaches every vacant slot exactly
// once and ends in noSlot.
func (a *Arena[T]) checkFreeList() error {
	seen := bitset.New(uint(len(a.slots)))
	visited := 0

	for id := a.free; id != noSlot; id = a.slots[id].next {
		if a.slots[id].state != slotFree {
			return corrupt(nil, "free list reaches live id %d", id)
		}

		if seen.Test(uint(id)) {
			return corrupt(nil, "free list cycles at id %d", id)
		}

		seen.Set(uint(id))
		visited++
	}

	if vacant := len(a.slots) - a.size; visited != vacant {
		return corrupt(nil, "free list covers %d of %d vacant slots", visited, vacant)
	}

	return nil
}

// readLink decodes a link stored as id+1 and checks it against the slot count.
func readLink(r io.ByteReader, n uint64) (int, error) {
	v, err := binary.ReadUvarint(r)
	if err != nil {
		return noSlot, err
	}

	if v > n {
		return noSlot, fmt.Errorf("link %d out of range", v-1)
	}

	return int(v) - 1, nil
}

func snapshotCodec(want codec.Codec, name string) (codec.Codec, error) {
	if want != nil {
		if want.Name() != name {
			return nil, corrupt(nil, "written with codec %q, reading with %q", name, want.Name())
		}

		return want, nil
	}

	c, ok := codec.ByName(name)
	if !ok {
		return nil, corrupt(nil, "unknown codec %q", name)
	}

	return c, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// compressWriter wraps w; closing the result flushes it but leaves w open.
func compressWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	default:
		return nil, fmt.Errorf("pigeonhole: unknown compression %d", c)
	}
}

func decompressReader(r io.Reader, c Compression) (io.Reader, func(), error) {
	switch c {
	case CompressionNone:
		return r, func() {}, nil
	case CompressionLZ4:
		return lz4.NewReader(r), func() {}, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, corrupt(err, "zstd stream")
		}

		return dec, dec.Close, nil
	default:
		return nil, nil, corrupt(nil, "unknown compression %d", c)
	}
}

func corrupt(cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrCorruptSnapshot, msg)
	}

	if errors.Is(cause, io.EOF) {
		cause = io.ErrUnexpectedEOF
	}

	return fmt.Errorf("%w: %s: %w", ErrCorruptSnapshot, msg, cause)
}
