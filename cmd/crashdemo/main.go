package main

import (
	"fmt"
	"os"

	"github.com/fo40225/go-minidump/internal/config"
	"github.com/fo40225/go-minidump/internal/crashdump"
	"github.com/fo40225/go-minidump/internal/syslog"
	"github.com/kardianos/service"
)

func main() {
	if err := initEventLog(); err != nil {
		fmt.Printf("Failed to initialize event log: %v\n", err)
	}
	defer closeEventLog()

	cfg, err := config.Load()
	if err != nil {
		syslog.L.Error(err).WithMessage("failed to load configuration").Write()
		return
	}

	handler := crashdump.New(crashdump.Config{
		Directory: cfg.DumpDirectory,
		OnCrash:   reportCrash,
	})
	if err := crashdump.Install(handler); err != nil {
		syslog.L.Error(err).WithMessage("failed to install crash handler").Write()
		return
	}
	defer crashdump.Catch()

	svcConfig := &service.Config{
		Name:        "GoMinidumpCrashDemo",
		DisplayName: "Go Minidump Crash Demo",
		Description: "Crashes on start to demonstrate minidump capture",
	}

	prg := &crashService{}
	s, err := service.New(prg, svcConfig)
	if err != nil {
		syslog.L.Error(err).WithMessage("failed to initialize service").Write()
		return
	}

	control, onGoroutine, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Printf("%v\nusage: %s [install|uninstall|%s]\n", err, os.Args[0], goroutineFlag)
		return
	}
	if control != "" {
		if err := service.Control(s, control); err != nil {
			syslog.L.Error(err).WithMessage(fmt.Sprintf("failed to %s service", control)).Write()
		}
		return
	}
	prg.onGoroutine = onGoroutine

	if service.Interactive() {
		syslog.L.Info().
			WithMessage("crashing").
			WithField("dump_directory", cfg.DumpDirectory).
			WithField("dump_type", crashdump.DumpType.String()).
			Write()
		prg.crash()
		return
	}

	if err := syslog.L.SetServiceLogger(s); err != nil {
		syslog.L.Error(err).WithMessage("failed to attach service logger").Write()
	}
	if err := s.Run(); err != nil {
		syslog.L.Error(err).WithMessage("error running service").Write()
	}
}

const goroutineFlag = "--goroutine"

// parseArgs returns the service control verb, if any, and whether the crash
// should happen on a crashdump.Go goroutine.
func parseArgs(args []string) (control string, onGoroutine bool, err error) {
	if len(args) == 0 {
		return "", false, nil
	}
	if len(args) > 1 {
		return "", false, fmt.Errorf("unexpected arguments: %v", args[1:])
	}

	switch args[0] {
	case "install", "uninstall":
		return args[0], false, nil
	case goroutineFlag:
		return "", true, nil
	}
	return "", false, fmt.Errorf("unknown argument %q", args[0])
}

// reportCrash runs inside the crash handler after the dump attempt.
func reportCrash(c *crashdump.Crash) {
	entry := syslog.L.Warn()
	if c.Err != nil {
		entry = syslog.L.Error(c.Err)
	}
	entry.WithMessage("unhandled panic").
		WithField("reason", fmt.Sprint(c.Reason)).
		WithField("dump", c.Path).
		Write()

	logPanic(c)
}
