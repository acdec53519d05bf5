package perf

// Facility is the kernel counter interface the session drives. Every call
// is synchronous. Errors are returned raw; the session classifies them.
type Facility interface {
	// Open creates a disabled counter for the calling thread on any CPU.
	// group is the leader fd, or -1 to open a standalone counter.
	Open(attr EventAttr, group int) (int, error)
	// ID returns the kernel correlation id of an open counter.
	ID(fd int) (uint64, error)
	Reset(fd int) error
	Enable(fd int) error
	Disable(fd int) error
	// Read copies the counter's read-format record into p. A zero return
	// with a nil error is end-of-stream.
	Read(fd int, p []byte) (int, error)
	Close(fd int) error
}

// Kernel returns the facility backed by the running operating system.
func Kernel() Facility {
	return kernelFacility{}
}
