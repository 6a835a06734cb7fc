package config

import (
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidateConfig checks a Config for errors that should stop startup:
// malformed globs, unknown toolset categories, unparseable durations.
func ValidateConfig(cfg *Config) error {
	if err := validateRuleset(&cfg.Ruleset); err != nil {
		return err
	}
	if err := validateToolset(cfg.Toolset); err != nil {
		return err
	}
	for _, root := range cfg.TrustRoots {
		if root == "" {
			return fmt.Errorf("trust_roots: empty path")
		}
	}
	if cfg.Confirm.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Confirm.Timeout); err != nil {
			return fmt.Errorf("confirm.timeout: %w", err)
		}
	}
	return nil
}

// ValidateProjectConfig checks a per-project overlay.
func ValidateProjectConfig(cfg *ProjectConfig) error {
	if err := validateRuleset(&cfg.Ruleset); err != nil {
		return err
	}
	if err := validateToolset(cfg.Toolset); err != nil {
		return err
	}
	for _, root := range cfg.TrustRoots {
		if root == "" {
			return fmt.Errorf("trust_roots: empty path")
		}
	}
	return nil
}

func validateRuleset(rs *Ruleset) error {
	for _, name := range Categories {
		rules := rs.Category(name)
		if rules == nil {
			continue
		}
		for _, glob := range rules.Allow {
			if !doublestar.ValidatePattern(glob) {
				return fmt.Errorf("ruleset.%s.allow: invalid glob %q", name, glob)
			}
		}
		for _, glob := range rules.Deny {
			if !doublestar.ValidatePattern(glob) {
				return fmt.Errorf("ruleset.%s.deny: invalid glob %q", name, glob)
			}
		}
	}
	return nil
}

func validateToolset(toolset []string) error {
	for _, name := range toolset {
		known := false
		for _, cat := range Categories {
			if name == cat {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("toolset: unknown category %q", name)
		}
	}
	return nil
}
