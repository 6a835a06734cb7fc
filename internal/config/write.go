package config

import (
	"errors"
	"fmt"
	"os"
)

// WriteDefaultConfig creates the default configuration file with helpful
// comments. If the config file already exists, it returns nil without
// overwriting. The config directory is created if it doesn't exist.
// The file is written with 0600 permissions (user read/write only).
func WriteDefaultConfig() error {
	path := GlobalConfigPath()

	_, err := os.Stat(path)
	if err == nil {
		// File exists, don't overwrite
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o600); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

// EnsurePatternsDir creates the default pattern directory if it doesn't
// exist.
func EnsurePatternsDir() error {
	if err := os.MkdirAll(PatternsDir(), 0o700); err != nil {
		return fmt.Errorf("ensure patterns dir: %w", err)
	}
	return nil
}
