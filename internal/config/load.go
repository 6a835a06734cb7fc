package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/tendhq/tend/internal/clog"
	"github.com/tendhq/tend/internal/pathutil"
)

// Load loads the global configuration from path, or from the default
// config path when path is empty. If the default config file doesn't
// exist, it is created and the defaults are returned. If the file exists
// but cannot be read, parsed, or validated, an error is returned.
// All paths containing ~ are expanded to the actual home directory.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = GlobalConfigPath()
	}
	clog.Debug("config: loading from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			clog.Info("config: file not found, creating defaults")
			if writeErr := WriteDefaultConfig(); writeErr != nil {
				clog.Warn("config: failed to create default config: %v", writeErr)
			}
			cfg := DefaultConfig()
			expandPaths(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	expandPaths(cfg)
	return cfg, nil
}

// LoadProject loads the per-project overlay from dir, if present.
// A missing overlay is not an error and returns nil.
func LoadProject(dir string) (*ProjectConfig, error) {
	path := ProjectConfigPath(dir)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read project config: %w", err)
	}
	clog.Debug("config: loading project overlay from %s", path)

	cfg, err := ParseProjectConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load project config: %w", err)
	}

	if err := ValidateProjectConfig(cfg); err != nil {
		return nil, fmt.Errorf("load project config: %w", err)
	}

	expandProjectPaths(cfg)
	return cfg, nil
}

// LoadRuleset loads a standalone ruleset file. The result replaces the
// configured ruleset wholesale rather than merging into it.
func LoadRuleset(path string) (*Ruleset, error) {
	data, err := os.ReadFile(pathutil.ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}

	rs, err := ParseRuleset(data)
	if err != nil {
		return nil, fmt.Errorf("load ruleset: %w", err)
	}

	if err := validateRuleset(rs); err != nil {
		return nil, fmt.Errorf("load ruleset: %w", err)
	}
	return rs, nil
}

// expandPaths expands ~ to the home directory in all path fields.
func expandPaths(cfg *Config) {
	for i, root := range cfg.TrustRoots {
		cfg.TrustRoots[i] = pathutil.ExpandHome(root)
	}
	for i, dir := range cfg.PatternDirs {
		cfg.PatternDirs[i] = pathutil.ExpandHome(dir)
	}
	cfg.Log.File = pathutil.ExpandHome(cfg.Log.File)
	cfg.Log.Audit = pathutil.ExpandHome(cfg.Log.Audit)
}

func expandProjectPaths(cfg *ProjectConfig) {
	for i, root := range cfg.TrustRoots {
		cfg.TrustRoots[i] = pathutil.ExpandHome(root)
	}
	for i, dir := range cfg.PatternDirs {
		cfg.PatternDirs[i] = pathutil.ExpandHome(dir)
	}
}
