package crashdump

import (
	"errors"
	"sync/atomic"
)

var ErrAlreadyInstalled = errors.New("crash handler already installed")

var installed atomic.Pointer[Handler]

// Install registers h as the process-wide crash handler. It can be called
// once per process; there is no way to uninstall.
func Install(h *Handler) error {
	if h == nil {
		return errors.New("crash handler is nil")
	}
	if !installed.CompareAndSwap(nil, h) {
		return ErrAlreadyInstalled
	}
	return nil
}

// Installed returns the process-wide crash handler, or nil.
func Installed() *Handler {
	return installed.Load()
}

// Catch is the catch-all boundary for a goroutine and must be deferred
// directly. A recovered panic goes to the installed handler, which does not
// return. Without a handler the panic continues.
func Catch() {
	r := recover()
	if r == nil {
		return
	}
	if h := installed.Load(); h != nil {
		h.HandleCrash(r)
		return
	}
	panic(r)
}

// Do runs f inside a Catch boundary.
func Do(f func()) {
	defer Catch()
	f()
}

// Go starts f on a new goroutine with a Catch boundary. Panics on goroutines
// started with a bare go statement bypass the handler.
func Go(f func()) {
	go Do(f)
}
