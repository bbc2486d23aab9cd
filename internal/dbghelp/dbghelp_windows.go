//go:build windows

package dbghelp

import (
	"fmt"
	"os"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	moddbghelp            = windows.NewLazySystemDLL("dbghelp.dll")
	procMiniDumpWriteDump = moddbghelp.NewProc("MiniDumpWriteDump")

	modkernel32           = windows.NewLazySystemDLL("kernel32.dll")
	procRtlCaptureContext = modkernel32.NewProc("RtlCaptureContext")
)

// Supported reports whether minidumps can be written on this platform.
const Supported = true

// CurrentProcess returns the pseudo-handle of the calling process.
func CurrentProcess() windows.Handle {
	return windows.CurrentProcess()
}

func CurrentProcessID() uint32 {
	return windows.GetCurrentProcessId()
}

func CurrentThreadID() uint32 {
	return windows.GetCurrentThreadId()
}

// MiniDumpWriteDump is a thin wrapper over dbghelp!MiniDumpWriteDump. exc may
// be nil. userStream and callback are passed through untouched and are 0 for
// every caller in this module.
func MiniDumpWriteDump(process windows.Handle, pid uint32, file windows.Handle, typ MinidumpType, exc *ExceptionInformation, userStream, callback uintptr) error {
	if err := procMiniDumpWriteDump.Find(); err != nil {
		return fmt.Errorf("MiniDumpWriteDump: %w", err)
	}

	r1, _, e1 := syscall.SyscallN(procMiniDumpWriteDump.Addr(),
		uintptr(process),
		uintptr(pid),
		uintptr(file),
		uintptr(typ),
		uintptr(unsafe.Pointer(exc)),
		userStream,
		callback,
	)
	if r1 == 0 {
		return lastError(e1)
	}
	return nil
}

// WriteDump writes a minidump of the current process into f. The caller keeps
// the EXCEPTION_POINTERS referenced by exc alive until WriteDump returns.
func WriteDump(f *os.File, typ MinidumpType, exc *ExceptionInformation) error {
	err := MiniDumpWriteDump(CurrentProcess(), CurrentProcessID(), windows.Handle(f.Fd()), typ, exc, 0, 0)
	runtime.KeepAlive(f)
	return err
}

// contextLayout returns the size, alignment and instruction pointer offset of
// CONTEXT for the running architecture.
func contextLayout() (size, align, pcOffset uintptr) {
	switch runtime.GOARCH {
	case "amd64":
		return 0x4d0, 16, 0xf8
	case "arm64":
		return 0x390, 16, 0x108
	case "386":
		return 0x2cc, 4, 0xb8
	}
	return 0, 0, 0
}

// CaptureException records the calling thread's processor context with
// RtlCaptureContext and wraps it in a noncontinuable exception record carrying
// code. The call goes through syscall.SyscallN, so the captured context and
// the exception address point into the runtime's syscall trampoline on the
// system stack, not at the panicking goroutine's frame.
func CaptureException(code uint32) (*ExceptionPointers, error) {
	size, align, pcOffset := contextLayout()
	if size == 0 {
		return nil, fmt.Errorf("capture exception: unsupported architecture %s", runtime.GOARCH)
	}
	if err := procRtlCaptureContext.Find(); err != nil {
		return nil, fmt.Errorf("capture exception: %w", err)
	}

	buf := make([]byte, size+align)
	off := uintptr(0)
	if rem := uintptr(unsafe.Pointer(&buf[0])) % align; rem != 0 {
		off = align - rem
	}
	ctx := unsafe.Pointer(&buf[off])

	syscall.SyscallN(procRtlCaptureContext.Addr(), uintptr(ctx))

	return &ExceptionPointers{
		ExceptionRecord: &ExceptionRecord{
			ExceptionCode:    code,
			ExceptionFlags:   ExceptionNoncontinuable,
			ExceptionAddress: *(*uintptr)(unsafe.Add(ctx, pcOffset)),
		},
		ContextRecord: ctx,
		backing:       buf,
	}, nil
}
