//go:build !windows

package main

import "github.com/fo40225/go-minidump/internal/crashdump"

func initEventLog() error { return nil }

func closeEventLog() {}

func logPanic(*crashdump.Crash) {}
