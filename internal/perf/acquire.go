package perf

import (
	"encoding/binary"
	"fmt"
)

// Sample is one raw reading of a counter.
type Sample struct {
	Value       uint64
	TimeEnabled uint64
	TimeRunning uint64
	ID          uint64
}

// Record sizes of the two read formats, in bytes.
const (
	// value, time_enabled, time_running, id
	independentRecordSize = 4 * 8
	// nr, time_enabled, time_running
	groupHeaderSize = 3 * 8
	// value, id per member
	groupEntrySize = 2 * 8
)

// sampled is the acquisition outcome for one active descriptor.
type sampled struct {
	d      *Descriptor
	sample Sample
	err    error
}

// strategy acquires raw samples for the active descriptors.
type strategy interface {
	readFormat() uint64
	// group returns the fd to open the next counter against.
	group(leader *Descriptor) int
	// acquire returns one outcome per active descriptor, in the given
	// order, or a batch error when the whole read is unusable.
	acquire(fac Facility, leader *Descriptor, active []*Descriptor) ([]sampled, error)
}

func newStrategy(m Mode) strategy {
	if m == ModeGrouped {
		return groupedReader{}
	}
	return independentReader{}
}

const baseReadFormat = FormatID | FormatTotalTimeEnabled | FormatTotalTimeRunning

type independentReader struct{}

func (independentReader) readFormat() uint64 { return baseReadFormat }

func (independentReader) group(*Descriptor) int { return -1 }

func (independentReader) acquire(fac Facility, _ *Descriptor, active []*Descriptor) ([]sampled, error) {
	out := make([]sampled, 0, len(active))
	for _, d := range active {
		s, err := readIndependent(fac, d.handle.fd)
		out = append(out, sampled{d: d, sample: s, err: err})
	}
	return out, nil
}

func readIndependent(fac Facility, fd int) (Sample, error) {
	var buf [independentRecordSize]byte
	n, err := fac.Read(fd, buf[:])
	switch {
	case err != nil:
		return Sample{}, fmt.Errorf("%w: %w", ErrRead, err)
	case n == 0:
		return Sample{}, ErrReadEOF
	case n != len(buf):
		return Sample{}, fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, n, len(buf))
	}

	return Sample{
		Value:       binary.NativeEndian.Uint64(buf[0:]),
		TimeEnabled: binary.NativeEndian.Uint64(buf[8:]),
		TimeRunning: binary.NativeEndian.Uint64(buf[16:]),
		ID:          binary.NativeEndian.Uint64(buf[24:]),
	}, nil
}

type groupedReader struct{}

func (groupedReader) readFormat() uint64 { return baseReadFormat | FormatGroup }

func (groupedReader) group(leader *Descriptor) int {
	if leader == nil || leader.handle == nil {
		return -1
	}
	return leader.handle.fd
}

func (groupedReader) acquire(fac Facility, leader *Descriptor, active []*Descriptor) ([]sampled, error) {
	if leader == nil || leader.handle == nil {
		return nil, fmt.Errorf("%w: no group leader", ErrRead)
	}

	// Sized from the active count right before the read.
	buf := make([]byte, groupHeaderSize+len(active)*groupEntrySize)
	n, err := fac.Read(leader.handle.fd, buf)
	switch {
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	case n == 0:
		return nil, ErrReadEOF
	case n != len(buf):
		return nil, fmt.Errorf("%w: read %d bytes, want %d for %d counters",
			ErrGroupInvariant, n, len(buf), len(active))
	}

	nr := binary.NativeEndian.Uint64(buf[0:])
	if nr != uint64(len(active)) {
		return nil, fmt.Errorf("%w: kernel reports %d members, %d active",
			ErrGroupInvariant, nr, len(active))
	}
	enabled := binary.NativeEndian.Uint64(buf[8:])
	running := binary.NativeEndian.Uint64(buf[16:])

	// Kernel order need not follow registration order; match by id.
	byID := make(map[uint64]Sample, nr)
	for i := range int(nr) {
		off := groupHeaderSize + i*groupEntrySize
		s := Sample{
			Value:       binary.NativeEndian.Uint64(buf[off:]),
			ID:          binary.NativeEndian.Uint64(buf[off+8:]),
			TimeEnabled: enabled,
			TimeRunning: running,
		}
		byID[s.ID] = s
	}

	out := make([]sampled, 0, len(active))
	for _, d := range active {
		s, ok := byID[d.id]
		if !ok {
			out = append(out, sampled{d: d, err: fmt.Errorf("%w: id %d", ErrMissingSample, d.id)})
			continue
		}
		out = append(out, sampled{d: d, sample: s})
	}
	return out, nil
}
