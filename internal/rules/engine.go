// Package rules maps matched prompts to accept/deny/ask decisions under
// the declarative ruleset configuration.
package rules

import (
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tendhq/tend/internal/clog"
	"github.com/tendhq/tend/internal/config"
	"github.com/tendhq/tend/internal/pattern"
)

// Decision is the outcome for a matched prompt.
type Decision int

// Decision constants.
const (
	// Accept answers the prompt with the pattern's response.
	Accept Decision = iota
	// Deny takes no action; the prompt stays on screen for the human.
	Deny
	// Ask surfaces an interactive confirmation to the human.
	Ask
)

// String returns a human-readable representation of a Decision.
func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case Deny:
		return "deny"
	case Ask:
		return "ask"
	default:
		return "unknown"
	}
}

// Engine evaluates match results against a ruleset. It is a pure
// decision function over its configuration; the only state it carries is
// the trust resolver's one-time banner flag.
type Engine struct {
	ruleset *config.Ruleset
	toolset []string
	trust   *TrustResolver
}

// NewEngine creates an engine over the effective configuration.
func NewEngine(cfg *config.Config, trust *TrustResolver) *Engine {
	return &Engine{
		ruleset: &cfg.Ruleset,
		toolset: cfg.Toolset,
		trust:   trust,
	}
}

// Decide maps a match to a decision, in priority order:
//
//  1. Lifecycle kinds (ready, notification) always accept; they are not
//     security-sensitive prompts.
//  2. Directory-trust prompts go through the trust-root resolver.
//  3. Everything else resolves a category from the pattern kind and
//     tests the relevant extracted field against that category's deny
//     then allow lists. Deny beats allow; no rules for the category, no
//     usable extracted field, or a category outside the configured
//     toolset all resolve to Ask.
func (e *Engine) Decide(m *pattern.Match) Decision {
	switch m.Kind {
	case pattern.KindReady, pattern.KindNotifying:
		return Accept
	case pattern.KindTrust:
		return e.trust.Resolve()
	}

	category := kindCategory(m.Kind)
	if category == "" {
		return Ask
	}
	if !e.toolsetAllows(category) {
		clog.Debug("rules: category %s outside toolset, asking", category)
		return Ask
	}

	field := extractField(category, m.Extracted)
	if field == "" {
		return Ask
	}

	rules := e.ruleset.Category(category)
	if rules == nil || rules.Empty() {
		return Ask
	}

	if matchAny(rules.Deny, field) {
		clog.Info("rules: %s %q denied", category, field)
		return Deny
	}
	if matchAny(rules.Allow, field) {
		clog.Debug("rules: %s %q allowed", category, field)
		return Accept
	}
	return Ask
}

// kindCategory maps pattern kinds to ruleset categories. Unknown kinds
// (including the generic confirmation kind) have no category.
func kindCategory(k pattern.Kind) string {
	switch k {
	case pattern.KindEditFile:
		return config.CategoryEdit
	case pattern.KindCreate:
		return config.CategoryCreate
	case pattern.KindBash:
		return config.CategoryBash
	case pattern.KindReadFile:
		return config.CategoryRead
	case pattern.KindFetch:
		return config.CategoryFetch
	default:
		return ""
	}
}

// toolsetAllows reports whether the category is eligible for automatic
// handling. An empty toolset allows everything.
func (e *Engine) toolsetAllows(category string) bool {
	if len(e.toolset) == 0 {
		return true
	}
	for _, name := range e.toolset {
		if name == category {
			return true
		}
	}
	return false
}

// extractField picks the extracted value the category's rules apply to:
// the command for bash, the domain for fetches, the file path otherwise.
func extractField(category string, extracted map[string]string) string {
	if len(extracted) == 0 {
		return ""
	}
	var keys []string
	switch category {
	case config.CategoryBash:
		keys = []string{"command", "cmd"}
	case config.CategoryFetch:
		keys = []string{"domain", "url"}
	default:
		keys = []string{"file", "path", "file_path"}
	}
	for _, key := range keys {
		if v, ok := extracted[key]; ok && v != "" {
			if category == config.CategoryFetch {
				return fetchDomain(v)
			}
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// fetchDomain reduces a captured URL to its host for domain matching.
// Bare domains pass through unchanged.
func fetchDomain(v string) string {
	v = strings.TrimSpace(v)
	if strings.Contains(v, "://") {
		if u, err := url.Parse(v); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}
	if i := strings.IndexByte(v, '/'); i != -1 {
		return v[:i]
	}
	return v
}

// matchAny tests value against each glob. Invalid globs were rejected at
// config validation; a runtime match error is treated as no match.
func matchAny(globs []string, value string) bool {
	for _, glob := range globs {
		ok, err := doublestar.Match(glob, value)
		if err != nil {
			clog.Warn("rules: glob %q: %v (skipped)", glob, err)
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
