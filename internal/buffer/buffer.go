// Package buffer maintains the transcript of child output a session has
// seen so far. It exposes two views of the same logical content: the raw
// bytes exactly as produced (used for terminal passthrough and match
// context) and an ANSI-stripped text view (used exclusively for pattern
// matching). Appending never mutates or delays what the session relays
// to the real terminal; the accumulator is a record, not a pipe.
package buffer

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// DefaultLimit is the transcript cap in bytes. Old content is dropped a
// whole line at a time once the cap is exceeded.
const DefaultLimit = 256 * 1024

// Accumulator accumulates child output chunks. It belongs to exactly one
// session loop and is not safe for concurrent use.
type Accumulator struct {
	raw      bytes.Buffer
	limit    int
	stripped string
	dirty    bool
}

// New creates an accumulator with the default transcript cap.
func New() *Accumulator {
	return NewWithLimit(DefaultLimit)
}

// NewWithLimit creates an accumulator capped at limit bytes. A limit of
// zero or less means unbounded.
func NewWithLimit(limit int) *Accumulator {
	return &Accumulator{limit: limit}
}

// Append records one output chunk. Partial lines spanning chunk
// boundaries are naturally carried: the stripped view is recomputed from
// the whole transcript, so a line is only finalized once its terminator
// has arrived.
func (a *Accumulator) Append(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	a.raw.Write(chunk)
	a.dirty = true

	if a.limit > 0 && a.raw.Len() > a.limit {
		a.trim()
	}
}

// trim drops oldest whole lines until the transcript fits the cap.
func (a *Accumulator) trim() {
	b := a.raw.Bytes()
	drop := len(b) - a.limit
	nl := bytes.IndexByte(b[drop:], '\n')
	if nl == -1 {
		// One giant unterminated line; keep the tail.
		rest := append([]byte(nil), b[drop:]...)
		a.raw.Reset()
		a.raw.Write(rest)
		return
	}
	rest := append([]byte(nil), b[drop+nl+1:]...)
	a.raw.Reset()
	a.raw.Write(rest)
}

// Raw returns the raw transcript, byte-exact as the child produced it
// (modulo cap trimming). The returned slice is valid until the next
// Append.
func (a *Accumulator) Raw() []byte {
	return a.raw.Bytes()
}

// Stripped returns the transcript with all ANSI escape sequences
// removed, CRLF normalized to LF, and carriage-return redraws collapsed
// to their final paint. This is the view the matcher operates on.
func (a *Accumulator) Stripped() string {
	if a.dirty {
		a.stripped = stripTranscript(a.raw.String())
		a.dirty = false
	}
	return a.stripped
}

// Lines returns the stripped transcript split into lines.
func (a *Accumulator) Lines() []string {
	s := a.Stripped()
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Len returns the raw transcript length in bytes.
func (a *Accumulator) Len() int {
	return a.raw.Len()
}

// Reset discards the transcript.
func (a *Accumulator) Reset() {
	a.raw.Reset()
	a.stripped = ""
	a.dirty = false
}

// stripTranscript produces the ANSI-stripped text view of raw terminal
// output. Spinner-style redraws emit a bare CR and repaint the line; only
// the text after the last CR on each line is the content actually left
// on screen.
func stripTranscript(raw string) string {
	s := ansi.Strip(raw)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if !strings.Contains(s, "\r") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if idx := strings.LastIndexByte(line, '\r'); idx != -1 {
			lines[i] = line[idx+1:]
		}
	}
	return strings.Join(lines, "\n")
}
