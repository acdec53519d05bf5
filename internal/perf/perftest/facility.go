// Package perftest provides a scripted perf.Facility for tests that cannot
// rely on kernel perf_event access.
package perftest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/neox5/tlbreport/internal/perf"
)

// ErrNoSpace mirrors the kernel's ENOSPC for a read buffer that is too
// small for the group.
var ErrNoSpace = errors.New("perftest: read buffer too small")

// Reading is what a fake counter reports when read.
type Reading struct {
	Value       uint64
	TimeEnabled uint64
	TimeRunning uint64
}

// Counter is the fake's view of one opened counter.
type Counter struct {
	FD      int
	ID      uint64
	Attr    perf.EventAttr
	Group   int
	Resets  int
	Enabled bool
	Closed  bool
}

// Facility is a perf.Facility whose behaviour is keyed by the event config
// value. Errors set in the maps are returned by the matching call.
type Facility struct {
	OpenErr    map[uint64]error
	IDErr      map[uint64]error
	ResetErr   map[uint64]error
	EnableErr  map[uint64]error
	DisableErr map[uint64]error
	ReadErr    map[uint64]error
	ReadEOF    map[uint64]bool

	// Readings holds the values reported per config. In a group read the
	// leader's times are used for the whole group.
	Readings map[uint64]Reading

	// GroupOrder reorders group members before encoding. It receives the
	// members in open order.
	GroupOrder func([]*Counter) []*Counter

	// GroupMembers, when set, overrides the member count in group reads.
	GroupMembers *uint64

	mu       sync.Mutex
	nextFD   int
	nextID   uint64
	counters map[int]*Counter
	opened   []*Counter
	reads    int
	closes   int
}

// New creates an empty fake. File descriptors start at 100, ids at 1000.
func New() *Facility {
	return &Facility{
		OpenErr:    make(map[uint64]error),
		IDErr:      make(map[uint64]error),
		ResetErr:   make(map[uint64]error),
		EnableErr:  make(map[uint64]error),
		DisableErr: make(map[uint64]error),
		ReadErr:    make(map[uint64]error),
		ReadEOF:    make(map[uint64]bool),
		Readings:   make(map[uint64]Reading),
		nextFD:     100,
		nextID:     1000,
		counters:   make(map[int]*Counter),
	}
}

func (f *Facility) Open(attr perf.EventAttr, group int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.OpenErr[attr.Config]; err != nil {
		return -1, err
	}
	if group != -1 {
		if leader, ok := f.counters[group]; !ok || leader.Closed {
			return -1, fmt.Errorf("perftest: bad group fd %d", group)
		}
	}

	c := &Counter{FD: f.nextFD, ID: f.nextID, Attr: attr, Group: group}
	f.nextFD++
	f.nextID++
	f.counters[c.FD] = c
	f.opened = append(f.opened, c)
	return c.FD, nil
}

func (f *Facility) ID(fd int) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, err := f.lookup(fd)
	if err != nil {
		return 0, err
	}
	if err := f.IDErr[c.Attr.Config]; err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (f *Facility) Reset(fd int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, err := f.lookup(fd)
	if err != nil {
		return err
	}
	if err := f.ResetErr[c.Attr.Config]; err != nil {
		return err
	}
	c.Resets++
	return nil
}

func (f *Facility) Enable(fd int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, err := f.lookup(fd)
	if err != nil {
		return err
	}
	if err := f.EnableErr[c.Attr.Config]; err != nil {
		return err
	}
	c.Enabled = true
	return nil
}

func (f *Facility) Disable(fd int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, err := f.lookup(fd)
	if err != nil {
		return err
	}
	c.Enabled = false
	return f.DisableErr[c.Attr.Config]
}

func (f *Facility) Read(fd int, p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads++
	c, err := f.lookup(fd)
	if err != nil {
		return 0, err
	}
	if err := f.ReadErr[c.Attr.Config]; err != nil {
		return 0, err
	}
	if f.ReadEOF[c.Attr.Config] {
		return 0, nil
	}

	if c.Attr.ReadFormat&perf.FormatGroup != 0 {
		return f.readGroup(c, p)
	}

	r := f.Readings[c.Attr.Config]
	if len(p) < 32 {
		return 0, ErrNoSpace
	}
	binary.NativeEndian.PutUint64(p[0:], r.Value)
	binary.NativeEndian.PutUint64(p[8:], r.TimeEnabled)
	binary.NativeEndian.PutUint64(p[16:], r.TimeRunning)
	binary.NativeEndian.PutUint64(p[24:], c.ID)
	return 32, nil
}

func (f *Facility) readGroup(leader *Counter, p []byte) (int, error) {
	members := []*Counter{leader}
	for _, c := range f.opened {
		if c.Group == leader.FD && !c.Closed {
			members = append(members, c)
		}
	}
	if f.GroupOrder != nil {
		members = f.GroupOrder(slices.Clone(members))
	}

	need := 24 + 16*len(members)
	if len(p) < need {
		return 0, ErrNoSpace
	}

	nr := uint64(len(members))
	if f.GroupMembers != nil {
		nr = *f.GroupMembers
	}
	lr := f.Readings[leader.Attr.Config]
	binary.NativeEndian.PutUint64(p[0:], nr)
	binary.NativeEndian.PutUint64(p[8:], lr.TimeEnabled)
	binary.NativeEndian.PutUint64(p[16:], lr.TimeRunning)
	for i, c := range members {
		off := 24 + 16*i
		binary.NativeEndian.PutUint64(p[off:], f.Readings[c.Attr.Config].Value)
		binary.NativeEndian.PutUint64(p[off+8:], c.ID)
	}
	return need, nil
}

func (f *Facility) Close(fd int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.counters[fd]
	if !ok {
		return fmt.Errorf("perftest: unknown fd %d", fd)
	}
	if c.Closed {
		return fmt.Errorf("perftest: fd %d closed twice", fd)
	}
	c.Closed = true
	f.closes++
	return nil
}

func (f *Facility) lookup(fd int) (*Counter, error) {
	c, ok := f.counters[fd]
	if !ok || c.Closed {
		return nil, fmt.Errorf("perftest: bad fd %d", fd)
	}
	return c, nil
}

// Opened returns every counter opened so far, in open order.
func (f *Facility) Opened() []*Counter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.opened)
}

// OpenFDs returns the fds that have not been closed.
func (f *Facility) OpenFDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var fds []int
	for _, c := range f.opened {
		if !c.Closed {
			fds = append(fds, c.FD)
		}
	}
	return fds
}

// Reads returns the number of Read calls.
func (f *Facility) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// Closes returns the number of successful Close calls.
func (f *Facility) Closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

// Reversed is a GroupOrder that reverses the kernel order.
func Reversed(members []*Counter) []*Counter {
	slices.Reverse(members)
	return members
}
