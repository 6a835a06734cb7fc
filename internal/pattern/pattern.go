// Package pattern implements prompt recognition over an ANSI-stripped
// terminal transcript. A Definition describes one known interactive
// prompt as a template of literal anchors and named captures; a Registry
// holds compiled definitions for the session's lifetime; a Matcher
// evaluates every registered pattern against a transcript snapshot and
// reports at most one new match per evaluation.
package pattern

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind categorizes what a recognized prompt is asking for. The rules
// engine maps kinds to ruleset categories; lifecycle kinds are handled
// specially and never consult the ruleset.
type Kind string

// Prompt kinds understood by the rules engine.
const (
	KindEditFile  Kind = "edit-file"
	KindCreate    Kind = "create-file"
	KindBash      Kind = "bash-command"
	KindReadFile  Kind = "read-file"
	KindFetch     Kind = "fetch-content"
	KindTrust     Kind = "trust-directory"
	KindConfirm   Kind = "confirmation" // generic confirmation, no category rules
	KindReady     Kind = "ready"        // session-lifecycle signal, always accepted
	KindNotifying Kind = "notification" // fires a side effect, nothing to answer
)

// Segment is one element of a pattern template: either a literal line
// anchor (which may carry inline {{ name }} captures) or a multiline
// capture spanning whole lines between its neighboring anchors.
type Segment struct {
	// Literal is the anchor text for a single logical line. Inline
	// placeholders use {{ name }} syntax.
	Literal string

	// Multiline, when non-empty, names a capture for the span of whole
	// lines strictly between the previous and next anchors. Literal is
	// empty in that case.
	Multiline string
}

// UnmarshalYAML accepts either a plain string (literal segment) or a
// mapping of the form {multiline: name}.
func (s *Segment) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var lit string
		if err := node.Decode(&lit); err != nil {
			return err
		}
		s.Literal = lit
		return nil
	case yaml.MappingNode:
		var m struct {
			Multiline string `yaml:"multiline"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		if m.Multiline == "" {
			return fmt.Errorf("template segment mapping must have a non-empty multiline key")
		}
		s.Multiline = m.Multiline
		return nil
	default:
		return fmt.Errorf("template segment must be a string or {multiline: name} mapping")
	}
}

// Response describes what to do when a pattern's prompt is accepted:
// either a sequence of synthetic keystrokes (each followed by Enter), or
// a side-effect action dispatched to the notifier.
type Response struct {
	// Keys are written to the child in order, each followed by an
	// effective Enter.
	Keys []string

	// Action is "log" or "notify" for side-effect responses; empty for
	// keystroke responses.
	Action string

	// Path is the target file for the log action.
	Path string

	// Message is the text for the notify action. When empty, the
	// pattern's matched text is used.
	Message string
}

// IsSideEffect reports whether the response is a side-effect action
// rather than synthetic keystrokes.
func (r Response) IsSideEffect() bool {
	return r.Action != ""
}

// IsZero reports whether the response carries neither keys nor an action.
func (r Response) IsZero() bool {
	return len(r.Keys) == 0 && r.Action == ""
}

// UnmarshalYAML accepts a scalar (single keystroke string), a sequence of
// strings, or a mapping with an action field.
func (r *Response) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var key string
		if err := node.Decode(&key); err != nil {
			return err
		}
		r.Keys = []string{key}
		return nil
	case yaml.SequenceNode:
		var keys []string
		if err := node.Decode(&keys); err != nil {
			return err
		}
		r.Keys = keys
		return nil
	case yaml.MappingNode:
		var m struct {
			Action  string `yaml:"action"`
			Path    string `yaml:"path"`
			Message string `yaml:"message"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		if m.Action != "log" && m.Action != "notify" {
			return fmt.Errorf("response action must be log or notify, got %q", m.Action)
		}
		if m.Action == "log" && m.Path == "" {
			return fmt.Errorf("log response requires a path")
		}
		r.Action = m.Action
		r.Path = m.Path
		r.Message = m.Message
		return nil
	default:
		return fmt.Errorf("response must be a string, list of strings, or action mapping")
	}
}

// Definition identifies one recognizable prompt. Definitions are
// registered once at startup and immutable thereafter.
type Definition struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Kind  Kind   `yaml:"kind"`

	// Template is the ordered segment sequence. An empty template makes
	// FallbackTrigger (or, failing that, any non-empty transcript) the
	// match condition.
	Template []Segment `yaml:"template"`

	// FallbackTrigger is a plain substring tested against the whole
	// transcript when Template is empty.
	FallbackTrigger string `yaml:"fallback_trigger"`

	Response Response `yaml:"response"`
}

// Match is the outcome of one matcher evaluation. It is constructed
// fresh per evaluation and never mutated.
type Match struct {
	PatternID string
	Title     string
	Kind      Kind
	Response  Response

	// MatchedText is the stripped transcript slice from the first to the
	// last matched line, inclusive.
	MatchedText string

	// FirstLine and LastLine are 0-based indices into the stripped
	// transcript snapshot the match was evaluated against.
	FirstLine int
	LastLine  int

	// Buffer and StrippedBuffer are the full raw and stripped snapshots.
	Buffer         string
	StrippedBuffer string

	// Extracted maps placeholder names to captured strings. Nil when the
	// template declared no placeholders.
	Extracted map[string]string
}
