package pattern

import (
	"testing"

	"github.com/tendhq/tend/internal/clog"
)

func init() {
	clog.Discard()
}

func mustRegister(t *testing.T, reg *Registry, defs ...Definition) {
	t.Helper()
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			t.Fatalf("Register(%s) error = %v", def.ID, err)
		}
	}
}

// TestEvaluateEmptySnapshot verifies an empty transcript never matches.
func TestEvaluateEmptySnapshot(t *testing.T) {
	reg := NewRegistry()
	mustRegister(t, reg, Definition{ID: "any"})

	m := NewMatcher(reg)
	if got := m.Evaluate("", ""); got != nil {
		t.Errorf("Evaluate(empty) = %v, want nil", got)
	}
}

// TestEvaluateBottommost verifies that among concurrent candidates the
// one whose span ends furthest down the transcript wins.
func TestEvaluateBottommost(t *testing.T) {
	reg := NewRegistry()
	mustRegister(t, reg,
		Definition{ID: "top", Template: []Segment{{Literal: "start"}}},
		Definition{ID: "bottom", Template: []Segment{{Literal: "end"}}},
	)

	m := NewMatcher(reg)
	got := m.Evaluate("start\nmiddle\nend", "")
	if got == nil {
		t.Fatal("Evaluate() = nil, want match")
	}
	if got.PatternID != "bottom" {
		t.Errorf("PatternID = %q, want %q", got.PatternID, "bottom")
	}
	if got.LastLine != 2 {
		t.Errorf("LastLine = %d, want 2", got.LastLine)
	}
}

// TestEvaluateTieKeepsRegistrationOrder verifies a LastLine tie is
// resolved in favor of the earlier-registered pattern.
func TestEvaluateTieKeepsRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	mustRegister(t, reg,
		Definition{ID: "first-registered", Template: []Segment{{Literal: "proceed?"}}},
		Definition{ID: "second-registered", Template: []Segment{{Literal: "proceed?"}}},
	)

	m := NewMatcher(reg)
	got := m.Evaluate("Do you want to proceed?", "")
	if got == nil {
		t.Fatal("Evaluate() = nil, want match")
	}
	if got.PatternID != "first-registered" {
		t.Errorf("PatternID = %q, want %q", got.PatternID, "first-registered")
	}
}

// TestEvaluateDedup verifies a pattern does not re-fire while its
// matched content is unchanged, and fires again once it changes.
func TestEvaluateDedup(t *testing.T) {
	reg := NewRegistry()
	mustRegister(t, reg, Definition{
		ID:       "edit",
		Template: []Segment{{Literal: "edit {{ file }}?"}},
	})

	m := NewMatcher(reg)
	if got := m.Evaluate("edit main.go?", ""); got == nil {
		t.Fatal("first Evaluate() = nil, want match")
	}

	// Redraw of the same prompt: suppressed.
	if got := m.Evaluate("edit main.go?", ""); got != nil {
		t.Errorf("redraw Evaluate() = %v, want nil", got)
	}

	// Same pattern, different content: a new prompt, so it fires.
	got := m.Evaluate("edit other.go?", "")
	if got == nil {
		t.Fatal("changed Evaluate() = nil, want match")
	}
	if got.Extracted["file"] != "other.go" {
		t.Errorf("file = %q, want %q", got.Extracted["file"], "other.go")
	}
}

// TestEvaluateNewPromptBelowReported verifies a second prompt of the
// same pattern fires when it appears below a previously reported one
// that is still in the transcript.
func TestEvaluateNewPromptBelowReported(t *testing.T) {
	reg := NewRegistry()
	mustRegister(t, reg, Definition{
		ID: "bash",
		Template: []Segment{
			{Literal: "Bash({{ command }})"},
			{Literal: "Do you want to proceed?"},
		},
	})

	m := NewMatcher(reg)
	snapshot := "Bash(ls)\nDo you want to proceed?"
	got := m.Evaluate(snapshot, "")
	if got == nil {
		t.Fatal("first Evaluate() = nil, want match")
	}
	if got.Extracted["command"] != "ls" {
		t.Errorf("command = %q, want %q", got.Extracted["command"], "ls")
	}

	// The first prompt stays on screen; a new one is appended below.
	snapshot += "\noutput\nBash(rm -rf /tmp/x)\nDo you want to proceed?"
	got = m.Evaluate(snapshot, "")
	if got == nil {
		t.Fatal("Evaluate() after append = nil, want the new prompt")
	}
	if got.Extracted["command"] != "rm -rf /tmp/x" {
		t.Errorf("command = %q, want %q", got.Extracted["command"], "rm -rf /tmp/x")
	}

	// Redraw of the combined transcript: suppressed.
	if got := m.Evaluate(snapshot, ""); got != nil {
		t.Errorf("redraw Evaluate() = %v, want nil", got)
	}
}

// TestEvaluateOnlyWinnerDedups verifies losing candidates keep their
// dedup slot, so a loser can still be reported on a later evaluation.
func TestEvaluateOnlyWinnerDedups(t *testing.T) {
	reg := NewRegistry()
	mustRegister(t, reg,
		Definition{ID: "upper", Template: []Segment{{Literal: "start"}}},
		Definition{ID: "lower", Template: []Segment{{Literal: "end"}}},
	)

	m := NewMatcher(reg)
	snapshot := "start\nend"

	got := m.Evaluate(snapshot, "")
	if got == nil || got.PatternID != "lower" {
		t.Fatalf("first Evaluate() = %v, want lower", got)
	}

	// lower is now deduplicated, upper was never reported: upper wins.
	got = m.Evaluate(snapshot, "")
	if got == nil || got.PatternID != "upper" {
		t.Fatalf("second Evaluate() = %v, want upper", got)
	}

	// Both deduplicated.
	if got := m.Evaluate(snapshot, ""); got != nil {
		t.Errorf("third Evaluate() = %v, want nil", got)
	}
}

// TestEvaluateMatchFields verifies the reported match carries the
// snapshot context and the matched slice.
func TestEvaluateMatchFields(t *testing.T) {
	reg := NewRegistry()
	mustRegister(t, reg, Definition{
		ID:    "bash",
		Title: "Run command",
		Kind:  KindBash,
		Template: []Segment{
			{Literal: "Bash({{ command }})"},
			{Literal: "proceed?"},
		},
		Response: Response{Keys: []string{"1"}},
	})

	m := NewMatcher(reg)
	stripped := "noise\nBash(ls -la)\nproceed?"
	raw := "noise\r\nBash(ls -la)\r\nproceed?"
	got := m.Evaluate(stripped, raw)
	if got == nil {
		t.Fatal("Evaluate() = nil, want match")
	}
	if got.Kind != KindBash {
		t.Errorf("Kind = %q, want %q", got.Kind, KindBash)
	}
	if got.MatchedText != "Bash(ls -la)\nproceed?" {
		t.Errorf("MatchedText = %q", got.MatchedText)
	}
	if got.FirstLine != 1 || got.LastLine != 2 {
		t.Errorf("span = %d-%d, want 1-2", got.FirstLine, got.LastLine)
	}
	if got.Buffer != raw || got.StrippedBuffer != stripped {
		t.Error("snapshot fields do not round the originals through")
	}
	if got.Extracted["command"] != "ls -la" {
		t.Errorf("command = %q, want %q", got.Extracted["command"], "ls -la")
	}
	if len(got.Response.Keys) != 1 || got.Response.Keys[0] != "1" {
		t.Errorf("Response.Keys = %v, want [1]", got.Response.Keys)
	}
}

// TestResetDedup verifies clearing the cache lets patterns re-fire on
// unchanged content.
func TestResetDedup(t *testing.T) {
	reg := NewRegistry()
	mustRegister(t, reg, Definition{ID: "p", Template: []Segment{{Literal: "prompt"}}})

	m := NewMatcher(reg)
	if got := m.Evaluate("prompt", ""); got == nil {
		t.Fatal("first Evaluate() = nil, want match")
	}
	if got := m.Evaluate("prompt", ""); got != nil {
		t.Fatal("deduped Evaluate() should be nil")
	}
	m.ResetDedup()
	if got := m.Evaluate("prompt", ""); got == nil {
		t.Error("Evaluate() after ResetDedup = nil, want match")
	}
}

// TestRegistryRegister verifies registration errors and ordering.
func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Definition{}); err == nil {
		t.Error("Register(no id) succeeded, want error")
	}
	mustRegister(t, reg, Definition{ID: "a"}, Definition{ID: "b"})
	if err := reg.Register(Definition{ID: "a"}); err == nil {
		t.Error("duplicate Register succeeded, want error")
	}
	if err := reg.Register(Definition{ID: "bad", Template: []Segment{{Literal: "{{ x"}}}); err == nil {
		t.Error("malformed template Register succeeded, want error")
	}

	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}
	all := reg.All()
	if all[0].Definition().ID != "a" || all[1].Definition().ID != "b" {
		t.Error("All() not in registration order")
	}

	reg.Remove("a")
	reg.Remove("missing")
	if reg.Len() != 1 || reg.Get("a") != nil || reg.Get("b") == nil {
		t.Error("Remove left registry in unexpected state")
	}
}
