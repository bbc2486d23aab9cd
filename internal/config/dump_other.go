//go:build !windows

package config

func loadOverrides(*Dump) error {
	return nil
}
