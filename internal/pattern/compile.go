package pattern

import (
	"fmt"
	"strings"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// token is one piece of a tokenized literal segment: either a literal
// fragment that must appear in the line, or a named capture slot.
type token struct {
	capture bool
	text    string // literal text, or the capture name
}

// lineMatcher matches one template segment. Exactly one of tokens or
// multiline is populated.
type lineMatcher struct {
	tokens    []token
	multiline string
}

// Compiled is an executable matcher built once from a Definition. It
// holds no mutable state and is safe to reuse across evaluations.
type Compiled struct {
	def      Definition
	segments []lineMatcher
	captures bool // template declares at least one placeholder
}

// Compile translates a Definition's template into a reusable matcher.
// Malformed templates (unbalanced placeholder delimiters, empty capture
// names) fail here, at registration time.
func Compile(def Definition) (*Compiled, error) {
	c := &Compiled{def: def}
	for i, seg := range def.Template {
		if seg.Multiline != "" {
			c.segments = append(c.segments, lineMatcher{multiline: strings.TrimSpace(seg.Multiline)})
			c.captures = true
			continue
		}
		toks, err := tokenize(seg.Literal)
		if err != nil {
			return nil, fmt.Errorf("pattern %s: template segment %d: %w", def.ID, i, err)
		}
		for _, t := range toks {
			if t.capture {
				c.captures = true
			}
		}
		c.segments = append(c.segments, lineMatcher{tokens: toks})
	}
	return c, nil
}

// Definition returns the definition the matcher was compiled from.
func (c *Compiled) Definition() Definition {
	return c.def
}

// tokenize splits a literal segment into literal fragments and capture
// slots. Placeholder names keep internal whitespace; surrounding
// whitespace is trimmed.
func tokenize(literal string) ([]token, error) {
	var toks []token
	rest := literal
	for {
		open := strings.Index(rest, openDelim)
		stray := strings.Index(rest, closeDelim)
		if open == -1 {
			if stray != -1 {
				return nil, fmt.Errorf("unbalanced %s in template %q", closeDelim, literal)
			}
			if rest != "" {
				toks = append(toks, token{text: rest})
			}
			return toks, nil
		}
		if stray != -1 && stray < open {
			return nil, fmt.Errorf("unbalanced %s in template %q", closeDelim, literal)
		}
		if open > 0 {
			toks = append(toks, token{text: rest[:open]})
		}
		rest = rest[open+len(openDelim):]
		end := strings.Index(rest, closeDelim)
		if end == -1 {
			return nil, fmt.Errorf("unbalanced %s in template %q", openDelim, literal)
		}
		name := strings.TrimSpace(rest[:end])
		if name == "" {
			return nil, fmt.Errorf("empty placeholder name in template %q", literal)
		}
		toks = append(toks, token{capture: true, text: name})
		rest = rest[end+len(closeDelim):]
	}
}

// matchLine tests a single stripped line against a tokenized segment.
// Literal fragments must appear in position order; a capture between two
// fragments takes the minimal span, a trailing capture takes the rest of
// the line (which may be empty).
func matchLine(line string, toks []token) (map[string]string, bool) {
	var captured map[string]string
	pending := "" // capture name awaiting its right boundary
	pos := 0
	for _, t := range toks {
		if t.capture {
			pending = t.text
			continue
		}
		idx := strings.Index(line[pos:], t.text)
		if idx < 0 {
			return nil, false
		}
		if pending != "" {
			if captured == nil {
				captured = make(map[string]string)
			}
			captured[pending] = line[pos : pos+idx]
			pending = ""
		}
		pos += idx + len(t.text)
	}
	if pending != "" {
		if captured == nil {
			captured = make(map[string]string)
		}
		captured[pending] = line[pos:]
	}
	return captured, true
}

// result is a positive template match against a transcript snapshot.
type result struct {
	first, last int
	extracted   map[string]string
}

// match runs the compiled template against the stripped transcript
// lines. Literal anchors are located as a subsequence in strictly
// increasing line order, bound to the latest occurrence so the template
// describes the prompt most recently drawn even when an earlier
// instance is still in the transcript; multiline captures resolve to
// the closed span of whole lines strictly between their neighboring
// anchors, or the transcript edge when unanchored.
func (c *Compiled) match(lines []string) (*result, bool) {
	if len(c.segments) == 0 {
		return c.matchFallback(lines)
	}

	anchorLines, ok := c.anchor(lines)
	if !ok {
		return nil, false
	}

	var extracted map[string]string
	merge := func(m map[string]string) {
		if len(m) == 0 {
			return
		}
		if extracted == nil {
			extracted = make(map[string]string)
		}
		for k, v := range m {
			extracted[k] = v
		}
	}

	next := 0                  // index into anchorLines
	pendingMulti := []string{} // multiline names awaiting their right anchor
	prevAnchor := -1
	first, last := -1, -1

	captureSpan := func(names []string, from, to int) {
		// from/to are exclusive anchor bounds; the span is lines
		// [from+1, to-1]. All pending multiline captures between the same
		// pair of anchors see the same span.
		span := ""
		if from+1 <= to-1 {
			span = strings.Join(lines[from+1:to], "\n")
			if first == -1 || from+1 < first {
				first = from + 1
			}
			if to-1 > last {
				last = to - 1
			}
		}
		for _, name := range names {
			merge(map[string]string{name: span})
		}
	}

	for _, seg := range c.segments {
		if seg.multiline != "" {
			pendingMulti = append(pendingMulti, seg.multiline)
			continue
		}
		found := anchorLines[next]
		next++
		lineCaps, _ := matchLine(lines[found], seg.tokens)
		if len(pendingMulti) > 0 {
			captureSpan(pendingMulti, prevAnchor, found)
			pendingMulti = pendingMulti[:0]
		}
		merge(lineCaps)
		if first == -1 || found < first {
			first = found
		}
		if found > last {
			last = found
		}
		prevAnchor = found
	}

	// Trailing multiline segments run to the transcript end.
	if len(pendingMulti) > 0 {
		captureSpan(pendingMulti, prevAnchor, len(lines))
	}

	if first == -1 {
		// Template was all multiline segments and captured nothing.
		first, last = 0, 0
		if len(lines) > 0 {
			last = len(lines) - 1
		}
	}
	return &result{first: first, last: last, extracted: extracted}, true
}

// anchor binds each literal segment to a transcript line, scanning from
// the bottom up: the final anchor takes its bottommost matching line,
// each earlier anchor its bottommost matching line strictly above the
// next one. If any strictly increasing assignment exists, this one
// does, and it is the lowest on screen.
func (c *Compiled) anchor(lines []string) ([]int, bool) {
	var lits []lineMatcher
	for _, seg := range c.segments {
		if seg.multiline == "" {
			lits = append(lits, seg)
		}
	}
	anchors := make([]int, len(lits))
	limit := len(lines) - 1
	for j := len(lits) - 1; j >= 0; j-- {
		found := -1
		for i := limit; i >= 0; i-- {
			if _, ok := matchLine(lines[i], lits[j].tokens); ok {
				found = i
				break
			}
		}
		if found == -1 {
			return nil, false
		}
		anchors[j] = found
		limit = found - 1
	}
	return anchors, true
}

// matchFallback handles empty templates: a configured fallback trigger
// matches when its substring appears anywhere in the transcript; with no
// trigger at all, any non-empty transcript matches. The matched span is
// the whole transcript.
func (c *Compiled) matchFallback(lines []string) (*result, bool) {
	if len(lines) == 0 {
		return nil, false
	}
	if c.def.FallbackTrigger != "" {
		if !strings.Contains(strings.Join(lines, "\n"), c.def.FallbackTrigger) {
			return nil, false
		}
	}
	return &result{first: 0, last: len(lines) - 1}, true
}
