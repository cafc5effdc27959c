// Package configpaths resolves where padlink looks for configuration files
// and macro scripts.
package configpaths

import (
	"os"
	"path/filepath"
)

const appDir = "padlink"

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDir), nil
}

// ConfigCandidatePaths returns config file candidates per format in
// priority order. A user supplied path is tried first and routed by its
// extension; files that do not exist are skipped by kong.
func ConfigCandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if userPath != "" {
		switch filepath.Ext(userPath) {
		case ".json":
			jsonPaths = append(jsonPaths, userPath)
		case ".toml":
			tomlPaths = append(tomlPaths, userPath)
		default:
			yamlPaths = append(yamlPaths, userPath)
		}
	}

	dirs := []string{"."}
	if d, err := DefaultConfigDir(); err == nil {
		dirs = append(dirs, d)
	}
	dirs = append(dirs, systemConfigDirs()...)

	for _, d := range dirs {
		jsonPaths = append(jsonPaths, filepath.Join(d, "padlink.json"))
		yamlPaths = append(yamlPaths,
			filepath.Join(d, "padlink.yaml"),
			filepath.Join(d, "padlink.yml"),
		)
		tomlPaths = append(tomlPaths, filepath.Join(d, "padlink.toml"))
	}
	return jsonPaths, yamlPaths, tomlPaths
}
