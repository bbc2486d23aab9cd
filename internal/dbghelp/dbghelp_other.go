//go:build !windows

package dbghelp

import (
	"errors"
	"os"
)

// Supported reports whether minidumps can be written on this platform.
const Supported = false

// CurrentProcessID returns the OS process ID of the caller.
func CurrentProcessID() uint32 {
	return uint32(os.Getpid())
}

// CurrentThreadID has no portable equivalent outside Windows and returns 0.
func CurrentThreadID() uint32 {
	return 0
}

// WriteDump always fails with errors.ErrUnsupported outside Windows.
func WriteDump(f *os.File, typ MinidumpType, exc *ExceptionInformation) error {
	return errors.ErrUnsupported
}

// CaptureException always fails with errors.ErrUnsupported outside Windows.
func CaptureException(code uint32) (*ExceptionPointers, error) {
	return nil, errors.ErrUnsupported
}
