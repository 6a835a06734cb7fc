package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tendhq/tend/internal/clog"
	"github.com/tendhq/tend/internal/pattern"
)

// LoadedPattern pairs a definition with the file it came from, for the
// pattern listing command.
type LoadedPattern struct {
	Definition pattern.Definition
	Source     string // file path, or "builtin"
}

// LoadPatterns assembles the full pattern set for a session: the
// built-in library (unless disabled) followed by every operator pattern
// file in the default patterns directory and the configured pattern
// directories. Files within a directory load in name order so operators
// can rely on registration order for tie-breaking.
func LoadPatterns(cfg *Config) ([]LoadedPattern, error) {
	var loaded []LoadedPattern

	if cfg.BuiltinPatterns == nil || *cfg.BuiltinPatterns {
		for _, def := range pattern.Builtin() {
			loaded = append(loaded, LoadedPattern{Definition: def, Source: "builtin"})
		}
	}

	dirs := append([]string{PatternsDir()}, cfg.PatternDirs...)
	for _, dir := range dirs {
		fromDir, err := loadPatternDir(dir)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, fromDir...)
	}
	return loaded, nil
}

// loadPatternDir reads every *.yaml/*.yml file in dir. A missing
// directory is not an error; a malformed file is.
func loadPatternDir(dir string) ([]LoadedPattern, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pattern dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := strings.ToLower(filepath.Ext(e.Name())); ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var loaded []LoadedPattern
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read pattern file %s: %w", path, err)
		}
		defs, err := ParsePatternFile(data)
		if err != nil {
			return nil, fmt.Errorf("pattern file %s: %w", path, err)
		}
		clog.Debug("config: loaded %d pattern(s) from %s", len(defs), path)
		for _, def := range defs {
			loaded = append(loaded, LoadedPattern{Definition: def, Source: path})
		}
	}
	return loaded, nil
}

// Register registers loaded patterns into reg, in order. A definition
// that fails to compile aborts registration with a descriptive error;
// broken patterns are never silently dropped.
func Register(reg *pattern.Registry, loaded []LoadedPattern) error {
	for _, lp := range loaded {
		if err := reg.Register(lp.Definition); err != nil {
			if lp.Source == "builtin" {
				return fmt.Errorf("builtin pattern: %w", err)
			}
			return fmt.Errorf("%s: %w", lp.Source, err)
		}
	}
	return nil
}
