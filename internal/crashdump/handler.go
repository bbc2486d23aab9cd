package crashdump

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/fo40225/go-minidump/internal/dbghelp"
)

const (
	// DumpType is the detail level requested for every crash dump.
	DumpType = dbghelp.MiniDumpWithFullMemory

	fileLayout = "20060102_150405"
	fileExt    = ".dmp"
)

// Config controls where a Handler writes its dump and who hears about it.
type Config struct {
	// Directory receives the dump file. Empty means the working directory at
	// crash time.
	Directory string

	// OnCrash is called after the dump attempt and before the process is
	// terminated. It must not block.
	OnCrash func(*Crash)
}

// Crash describes a single handled crash.
type Crash struct {
	Reason any
	Stack  []byte
	Path   string
	Err    error
}

// Handler writes one minidump for the first crash it sees, then kills the
// process.
type Handler struct {
	dir     string
	onCrash func(*Crash)

	supported bool
	now       func() time.Time
	threadID  func() uint32
	capture   func(code uint32) (*dbghelp.ExceptionPointers, error)
	write     func(f *os.File, typ dbghelp.MinidumpType, exc *dbghelp.ExceptionInformation) error
	terminate func()

	fired atomic.Bool
	done  chan struct{}
}

func New(cfg Config) *Handler {
	return &Handler{
		dir:       cfg.Directory,
		onCrash:   cfg.OnCrash,
		supported: dbghelp.Supported,
		now:       time.Now,
		threadID:  dbghelp.CurrentThreadID,
		capture:   dbghelp.CaptureException,
		write:     dbghelp.WriteDump,
		terminate: terminate,
		done:      make(chan struct{}),
	}
}

// FileName returns the dump file name for a crash at t.
func FileName(t time.Time) string {
	return t.Format(fileLayout) + fileExt
}

// HandleCrash writes the dump for reason and terminates the process. Only
// the first call does any work; later or concurrent callers block until the
// first one has finished, which in practice is forever.
func (h *Handler) HandleCrash(reason any) {
	if !h.fired.CompareAndSwap(false, true) {
		<-h.done
		return
	}
	defer close(h.done)
	defer h.terminate()

	runtime.LockOSThread()

	crash := &Crash{Reason: reason, Stack: debug.Stack()}
	crash.Path, crash.Err = h.writeDump()

	if h.onCrash != nil {
		func() {
			defer func() { _ = recover() }()
			h.onCrash(crash)
		}()
	}
}

func (h *Handler) writeDump() (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dump writer panicked: %v", r)
		}
	}()

	if !h.supported {
		return "", fmt.Errorf("write dump: %w", errors.ErrUnsupported)
	}

	dir := h.dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("resolve dump directory: %w", err)
		}
	}

	path, err = securejoin.SecureJoin(dir, FileName(h.now()))
	if err != nil {
		return "", fmt.Errorf("resolve dump path: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create dump file: %w", err)
	}
	defer f.Close()

	var exc *dbghelp.ExceptionInformation
	ptrs, cerr := h.capture(dbghelp.ExceptionGoPanic)
	if cerr == nil && ptrs != nil {
		exc = dbghelp.NewExceptionInformation(h.threadID(), ptrs.Addr(), false)
	}

	err = h.write(f, DumpType, exc)
	runtime.KeepAlive(ptrs)
	if err != nil {
		return path, fmt.Errorf("write dump: %w", err)
	}
	return path, nil
}
