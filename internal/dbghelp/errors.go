package dbghelp

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrCancelled is wrapped by MiniDumpWriteDump errors when the dump was
// cancelled rather than failed.
var ErrCancelled = errors.New("minidump write cancelled")

const (
	errorCancelled = 1223 // ERROR_CANCELLED

	// hresultCancelled is HRESULT_FROM_WIN32(ERROR_CANCELLED). MiniDumpWriteDump
	// sets the last error to an HRESULT.
	hresultCancelled = 0x800704C7
)

// lastError converts the last-error value left by a failed MiniDumpWriteDump.
func lastError(e syscall.Errno) error {
	switch {
	case e == 0:
		return errors.New("MiniDumpWriteDump failed")
	case uint32(e) == hresultCancelled || e == errorCancelled:
		return fmt.Errorf("MiniDumpWriteDump: %w (%w)", ErrCancelled, e)
	default:
		return fmt.Errorf("MiniDumpWriteDump: %w", e)
	}
}
