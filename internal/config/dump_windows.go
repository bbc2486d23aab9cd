//go:build windows

package config

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

func loadOverrides(d *Dump) error {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, RegistryPath, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error opening HKLM\\%s -> %w", RegistryPath, err)
	}
	defer key.Close()

	value, valType, err := key.GetStringValue(dumpDirectoryValue)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading %s -> %w", dumpDirectoryValue, err)
	}

	if valType == registry.EXPAND_SZ {
		if value, err = registry.ExpandString(value); err != nil {
			return fmt.Errorf("error expanding %s -> %w", dumpDirectoryValue, err)
		}
	}

	return d.setDumpDirectory(value)
}
