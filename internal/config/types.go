// Package config provides configuration types for tend global and
// per-project settings. These types map to YAML configuration files.
package config

// Config represents the top-level configuration for tend.
// It is typically stored at ~/.config/tend/config.yaml.
type Config struct {
	// Ruleset is the declarative accept/deny policy, keyed by prompt
	// category.
	Ruleset Ruleset `yaml:"ruleset,omitempty"`

	// Toolset lists the categories eligible for automatic handling.
	// Empty means all categories are eligible.
	Toolset []string `yaml:"toolset,omitempty"`

	// TrustRoots are directories whose direct children are pre-trusted
	// for directory-trust prompts. A leading ~ is expanded.
	TrustRoots []string `yaml:"trust_roots,omitempty"`

	// PatternDirs are directories scanned for operator pattern files
	// (*.yaml) at startup.
	PatternDirs []string `yaml:"pattern_dirs,omitempty"`

	// BuiltinPatterns controls whether the built-in pattern library is
	// registered. Defaults to true when unset.
	BuiltinPatterns *bool `yaml:"builtin_patterns,omitempty"`

	Confirm ConfirmConfig `yaml:"confirm,omitempty"`
	Notify  NotifyConfig  `yaml:"notify,omitempty"`
	Log     LogConfig     `yaml:"log,omitempty"`
}

// Ruleset holds category-keyed allow/deny collections. Entries use
// filesystem-glob matching (*, **, brace groups, character classes).
// Deny takes precedence over allow; a category with no rules at all
// resolves to Ask.
type Ruleset struct {
	Edit   CategoryRules `yaml:"edit,omitempty"`
	Create CategoryRules `yaml:"create,omitempty"`
	Bash   CategoryRules `yaml:"bash,omitempty"`
	Read   CategoryRules `yaml:"read,omitempty"`
	Fetch  CategoryRules `yaml:"fetch,omitempty"`
}

// CategoryRules is one category's allow and deny glob lists.
type CategoryRules struct {
	Allow []string `yaml:"allow,omitempty"`
	Deny  []string `yaml:"deny,omitempty"`
}

// Empty reports whether the category has no rules configured.
func (c CategoryRules) Empty() bool {
	return len(c.Allow) == 0 && len(c.Deny) == 0
}

// Category names accepted in Ruleset and Toolset.
const (
	CategoryEdit   = "edit"
	CategoryCreate = "create"
	CategoryBash   = "bash"
	CategoryRead   = "read"
	CategoryFetch  = "fetch"
	CategoryTrust  = "trust"
)

// Categories lists every known category name.
var Categories = []string{
	CategoryEdit, CategoryCreate, CategoryBash,
	CategoryRead, CategoryFetch, CategoryTrust,
}

// Category returns the rules for a named category, or nil for unknown
// names and for trust (which is resolved by the trust-root resolver, not
// the generic lists).
func (r *Ruleset) Category(name string) *CategoryRules {
	switch name {
	case CategoryEdit:
		return &r.Edit
	case CategoryCreate:
		return &r.Create
	case CategoryBash:
		return &r.Bash
	case CategoryRead:
		return &r.Read
	case CategoryFetch:
		return &r.Fetch
	default:
		return nil
	}
}

// ConfirmConfig contains settings for interactive confirmation prompts.
type ConfirmConfig struct {
	// Timeout bounds a confirmation wait when input falls back to a
	// secondary terminal device (e.g., stdin is a pipe). Duration string,
	// e.g. "30s". On expiry the prompt resolves to its safe default.
	Timeout string `yaml:"timeout,omitempty"`
}

// NotifyConfig contains settings for side-effect notification dispatch.
type NotifyConfig struct {
	// Desktop enables best-effort desktop notifications. Defaults to
	// true when unset.
	Desktop *bool `yaml:"desktop,omitempty"`

	// Command overrides the notification command. When empty, a
	// platform default is used (notify-send or osascript).
	Command string `yaml:"command,omitempty"`
}

// LogConfig contains operational and audit logging settings.
type LogConfig struct {
	// File is the operational log path. Empty uses the XDG default.
	File string `yaml:"file,omitempty"`

	// Level is the minimum level: debug, info, warn, error.
	Level string `yaml:"level,omitempty"`

	// Audit is the decision audit trail path. Empty disables the trail.
	Audit string `yaml:"audit,omitempty"`
}

// ProjectConfig represents the per-project overlay, stored as .tend.yaml
// in the project root. Its collections add to the global configuration.
type ProjectConfig struct {
	Ruleset     Ruleset  `yaml:"ruleset,omitempty"`
	Toolset     []string `yaml:"toolset,omitempty"`
	TrustRoots  []string `yaml:"trust_roots,omitempty"`
	PatternDirs []string `yaml:"pattern_dirs,omitempty"`
}
