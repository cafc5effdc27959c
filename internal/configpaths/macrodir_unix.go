//go:build !windows

package configpaths

import (
	"os"
	"path/filepath"
)

// MacroDir returns the directory scanned for macro scripts.
// When running as root, /etc/padlink/macros is used.
func MacroDir() (string, error) {
	if os.Geteuid() == 0 {
		return filepath.Join(string(os.PathSeparator), "etc", appDir, "macros"), nil
	}
	d, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "macros"), nil
}

func systemConfigDirs() []string {
	return []string{filepath.Join(string(os.PathSeparator), "etc", appDir)}
}
