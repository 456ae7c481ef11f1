package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the configuration directory.
const AppName = "extractbench"

// ExpandPath resolves a leading ~ to the home directory and expands $VAR
// references. Paths that cannot be expanded are returned unchanged.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + strings.TrimPrefix(path, "~")
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// Dir returns the directory config.yaml is searched in:
// $XDG_CONFIG_HOME/extractbench, falling back to ~/.config/extractbench.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}
