package pattern

import (
	"strings"

	"github.com/tendhq/tend/internal/clog"
)

// Matcher evaluates registered patterns against transcript snapshots.
// It owns the per-pattern dedup cache: a pattern is only reported again
// once its matched content differs from what was last reported for it,
// so prompts that merely get redrawn never re-fire. A Matcher belongs to
// exactly one session loop and is not safe for concurrent use.
type Matcher struct {
	registry     *Registry
	lastReported map[string]string // pattern id -> fullMatchedContent
}

// NewMatcher creates a matcher over the given registry with an empty
// dedup cache.
func NewMatcher(reg *Registry) *Matcher {
	return &Matcher{
		registry:     reg,
		lastReported: make(map[string]string),
	}
}

// candidate is a per-pattern positive match awaiting selection.
type candidate struct {
	compiled *Compiled
	res      *result
	content  string
}

// Evaluate runs every registered pattern against the complete stripped
// snapshot and returns the single reportable match, or nil. Among new
// (non-deduplicated) candidates, the bottommost one wins: the candidate
// whose span ends furthest down the transcript. Ties keep registration
// order. Only the winner's dedup entry is updated.
func (m *Matcher) Evaluate(stripped, raw string) *Match {
	if stripped == "" {
		return nil
	}
	lines := strings.Split(stripped, "\n")

	var winner *candidate
	for _, c := range m.registry.All() {
		cand := m.evalOne(c, lines)
		if cand == nil {
			continue
		}
		if m.lastReported[c.def.ID] == cand.content {
			// Unchanged reappearance, likely a redraw. Do not re-report.
			continue
		}
		if winner == nil || cand.res.last > winner.res.last {
			winner = cand
		}
	}
	if winner == nil {
		return nil
	}

	def := winner.compiled.def
	m.lastReported[def.ID] = winner.content
	clog.Debug("pattern %s matched lines %d-%d", def.ID, winner.res.first, winner.res.last)

	return &Match{
		PatternID:      def.ID,
		Title:          def.Title,
		Kind:           def.Kind,
		Response:       def.Response,
		MatchedText:    winner.content,
		FirstLine:      winner.res.first,
		LastLine:       winner.res.last,
		Buffer:         raw,
		StrippedBuffer: stripped,
		Extracted:      winner.res.extracted,
	}
}

// evalOne evaluates a single pattern, converting any panic into a logged
// no-match so one broken pattern never blocks the others.
func (m *Matcher) evalOne(c *Compiled, lines []string) (cand *candidate) {
	defer func() {
		if r := recover(); r != nil {
			clog.Warn("pattern %s: evaluation failed: %v (skipped)", c.def.ID, r)
			cand = nil
		}
	}()

	res, ok := c.match(lines)
	if !ok {
		return nil
	}
	return &candidate{
		compiled: c,
		res:      res,
		content:  strings.Join(lines[res.first:res.last+1], "\n"),
	}
}

// ResetDedup clears the dedup cache. Used when the transcript is reset.
func (m *Matcher) ResetDedup() {
	m.lastReported = make(map[string]string)
}
