//go:build windows

package main

import (
	"fmt"

	"github.com/fo40225/go-minidump/internal/crashdump"
	"golang.org/x/sys/windows/svc/eventlog"
)

const eventSourceKey = "GoMinidumpCrashDemo"

var eventLogger *eventlog.Log

func initEventLog() error {
	// Fails when the source is already registered or the process is not
	// elevated. Open still works in the first case.
	_ = eventlog.InstallAsEventCreate(eventSourceKey, eventlog.Error|eventlog.Warning|eventlog.Info)

	logger, err := eventlog.Open(eventSourceKey)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	eventLogger = logger
	return nil
}

func closeEventLog() {
	if eventLogger != nil {
		_ = eventLogger.Close()
	}
}

func logPanic(c *crashdump.Crash) {
	if eventLogger == nil {
		return
	}

	msg := fmt.Sprintf("Go Minidump Crash Demo Panic: %v\nDump: %s\n", c.Reason, c.Path)
	if c.Err != nil {
		msg += fmt.Sprintf("Dump error: %v\n", c.Err)
	}
	msg += fmt.Sprintf("Stack Trace:\n%s", c.Stack)
	_ = eventLogger.Error(1, msg)
}
