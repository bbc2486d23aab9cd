package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RegistryPath is the HKLM key holding overrides on Windows.
const RegistryPath = `Software\GoMinidump\Config`

const dumpDirectoryValue = "DumpDirectory"

// Dump holds the crash dump settings.
type Dump struct {
	// DumpDirectory is where crash dumps are written. Always absolute.
	DumpDirectory string
}

// Load returns the dump settings: the working directory unless an override
// is configured for the platform.
func Load() (*Dump, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("Load: error resolving working directory -> %w", err)
	}

	cfg := &Dump{DumpDirectory: wd}
	if err := loadOverrides(cfg); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	return cfg, nil
}

func (d *Dump) setDumpDirectory(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	abs, err := filepath.Abs(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q -> %w", dumpDirectoryValue, value, err)
	}
	d.DumpDirectory = abs
	return nil
}
