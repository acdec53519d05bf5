package perf

// Status is the lifecycle state of a counter descriptor.
type Status int

const (
	StatusRegistered Status = iota
	StatusOpened
	StatusActive
	StatusSampled
	StatusSampleFailed
	StatusClosed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRegistered:
		return "registered"
	case StatusOpened:
		return "opened"
	case StatusActive:
		return "active"
	case StatusSampled:
		return "sampled"
	case StatusSampleFailed:
		return "sample_failed"
	case StatusClosed:
		return "closed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Descriptor is a named counter definition together with the runtime state
// the session drives it through.
type Descriptor struct {
	name string
	attr EventAttr

	handle *handle
	id     uint64
	status Status
	err    error
}

// Name returns the counter name.
func (d *Descriptor) Name() string { return d.name }

// Attr returns the attributes produced by the config func.
func (d *Descriptor) Attr() EventAttr { return d.attr }

// Status returns the current lifecycle state.
func (d *Descriptor) Status() Status { return d.status }

// ID returns the kernel correlation id. It is only meaningful while the
// descriptor is opened or active.
func (d *Descriptor) ID() uint64 { return d.id }

// Err returns the failure recorded during the last cycle, if any.
func (d *Descriptor) Err() error { return d.err }

// rearm clears every trace of the previous cycle.
func (d *Descriptor) rearm() {
	d.handle = nil
	d.id = 0
	d.err = nil
	d.status = StatusRegistered
}

// fail moves the descriptor to Failed. An already open handle is kept so
// finalize can release it.
func (d *Descriptor) fail(err error) {
	d.err = err
	d.status = StatusFailed
}

// release closes the handle if one is held and forgets the correlation id.
func (d *Descriptor) release() error {
	err := d.handle.Close()
	d.handle = nil
	d.id = 0
	if d.status != StatusFailed {
		d.status = StatusClosed
	}
	return err
}

// handle owns a kernel counter fd. Close is safe to call more than once.
type handle struct {
	fd     int
	fac    Facility
	closed bool
}

func newHandle(fd int, fac Facility) *handle {
	return &handle{fd: fd, fac: fac}
}

// Close releases the fd. Nil and already closed handles are no-ops.
func (h *handle) Close() error {
	if h == nil || h.closed {
		return nil
	}
	h.closed = true
	return h.fac.Close(h.fd)
}
