//go:build linux

package perf

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Syscall entry points, swapped out by tests to reach the error paths.
var (
	perfEventOpen = unix.PerfEventOpen
	ioctlSetInt   = unix.IoctlSetInt
	ioctlID       = func(fd int, id *uint64) error {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd),
			uintptr(unix.PERF_EVENT_IOC_ID), uintptr(unsafe.Pointer(id)))
		if errno != 0 {
			return errno
		}
		return nil
	}
	readFD  = unix.Read
	closeFD = unix.Close
)

type kernelFacility struct{}

func (kernelFacility) Open(attr EventAttr, group int) (int, error) {
	kattr := unix.PerfEventAttr{
		Type:        attr.Type,
		Config:      attr.Config,
		Size:        uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
		Read_format: attr.ReadFormat,
		Bits:        unix.PerfBitDisabled,
	}
	if attr.ExcludeKernel {
		kattr.Bits |= unix.PerfBitExcludeKernel
	}
	if attr.ExcludeUser {
		kattr.Bits |= unix.PerfBitExcludeUser
	}
	if attr.ExcludeHV {
		kattr.Bits |= unix.PerfBitExcludeHv
	}

	// pid 0, cpu -1: the calling thread on whatever CPU it runs on.
	return perfEventOpen(&kattr, 0, -1, group, unix.PERF_FLAG_FD_CLOEXEC)
}

func (kernelFacility) ID(fd int) (uint64, error) {
	var id uint64
	if err := ioctlID(fd, &id); err != nil {
		return 0, err
	}
	return id, nil
}

func (kernelFacility) Reset(fd int) error {
	return ioctlSetInt(fd, unix.PERF_EVENT_IOC_RESET, 0)
}

func (kernelFacility) Enable(fd int) error {
	return ioctlSetInt(fd, unix.PERF_EVENT_IOC_ENABLE, 0)
}

func (kernelFacility) Disable(fd int) error {
	return ioctlSetInt(fd, unix.PERF_EVENT_IOC_DISABLE, 0)
}

func (kernelFacility) Read(fd int, p []byte) (int, error) {
	for {
		n, err := readFD(fd, p)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return n, err
	}
}

func (kernelFacility) Close(fd int) error {
	return closeFD(fd)
}
