package main

import (
	"sync"
	"time"

	"github.com/fo40225/go-minidump/internal/crashdump"
	"github.com/kardianos/service"
)

const crashDelay = 5 * time.Second

type crashService struct {
	onGoroutine bool

	mu   sync.Mutex
	done chan struct{}
}

// Start schedules the crash so the service manager sees the service running
// first.
func (p *crashService) Start(s service.Service) error {
	done := make(chan struct{})
	p.mu.Lock()
	p.done = done
	p.mu.Unlock()

	crashdump.Go(func() {
		select {
		case <-time.After(crashDelay):
			explode()
		case <-done:
		}
	})
	return nil
}

// Stop cancels a pending crash. It is safe before Start and when repeated.
func (p *crashService) Stop(s service.Service) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done != nil {
		close(p.done)
		p.done = nil
	}
	return nil
}

// crash panics on the calling goroutine, or on a crashdump.Go goroutine when
// onGoroutine is set, and waits for the handler to kill the process.
func (p *crashService) crash() {
	if !p.onGoroutine {
		explode()
		return
	}

	crashdump.Go(explode)
	select {}
}

//go:noinline
func explode() {
	var p *struct{ n int }
	p.n++
}
