//go:build windows

package configpaths

import "path/filepath"

// MacroDir returns the directory scanned for macro scripts.
func MacroDir() (string, error) {
	d, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "macros"), nil
}

func systemConfigDirs() []string { return nil }
