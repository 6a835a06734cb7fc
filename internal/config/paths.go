package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tendhq/tend/internal/pathutil"
)

// ProjectConfigName is the per-project overlay file looked up in the
// working directory.
const ProjectConfigName = ".tend.yaml"

// Dir returns the tend configuration directory path.
// By default, this is ~/.config/tend. If the XDG_CONFIG_HOME
// environment variable is set, it uses $XDG_CONFIG_HOME/tend instead.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = "~/.config"
	}
	return filepath.Join(pathutil.ExpandHome(base), "tend")
}

// EnsureDir creates the tend configuration directory if it doesn't
// exist. It uses 0700 permissions (user-only access).
func EnsureDir() error {
	if err := os.MkdirAll(Dir(), 0o700); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	return nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// PatternsDir returns the default operator pattern directory,
// Dir() + "/patterns". It is always scanned in addition to any
// configured pattern_dirs.
func PatternsDir() string {
	return filepath.Join(Dir(), "patterns")
}

// ProjectConfigPath returns the overlay path for a working directory.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigName)
}
