package buffer

import (
	"bytes"
	"strings"
	"testing"
)

// TestAppendRawExact verifies the raw view preserves bytes exactly,
// escape sequences included.
func TestAppendRawExact(t *testing.T) {
	a := New()
	chunks := [][]byte{
		[]byte("\x1b[2J\x1b[H"),
		[]byte("hello \x1b[1mworld\x1b[0m\r\n"),
		[]byte("partial"),
	}
	var want bytes.Buffer
	for _, c := range chunks {
		a.Append(c)
		want.Write(c)
	}
	if !bytes.Equal(a.Raw(), want.Bytes()) {
		t.Errorf("Raw() = %q, want %q", a.Raw(), want.Bytes())
	}
	if a.Len() != want.Len() {
		t.Errorf("Len() = %d, want %d", a.Len(), want.Len())
	}
}

// TestStripped verifies ANSI removal and line normalization.
func TestStripped(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "color codes removed",
			raw:  "\x1b[32mgreen\x1b[0m text",
			want: "green text",
		},
		{
			name: "crlf normalized",
			raw:  "one\r\ntwo\r\nthree",
			want: "one\ntwo\nthree",
		},
		{
			name: "cursor movement removed",
			raw:  "\x1b[2Aprompt\x1b[K?",
			want: "prompt?",
		},
		{
			name: "spinner redraw keeps final paint",
			raw:  "⠋ working\r⠙ working\r⠹ done\n",
			want: "⠹ done\n",
		},
		{
			name: "redraw on interior line",
			raw:  "header\r\nspin 1\rspin 2\r\nfooter",
			want: "header\nspin 2\nfooter",
		},
		{
			name: "plain text untouched",
			raw:  "no escapes here\n",
			want: "no escapes here\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()
			a.Append([]byte(tt.raw))
			if got := a.Stripped(); got != tt.want {
				t.Errorf("Stripped() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestStrippedCachedAcrossAppends verifies the stripped view tracks the
// transcript as chunks arrive, including escape sequences split across
// chunk boundaries once the remainder lands.
func TestStrippedCachedAcrossAppends(t *testing.T) {
	a := New()
	a.Append([]byte("Do you want"))
	if got := a.Stripped(); got != "Do you want" {
		t.Fatalf("Stripped() = %q", got)
	}
	a.Append([]byte(" to proceed?\r\n"))
	if got := a.Stripped(); got != "Do you want to proceed?\n" {
		t.Errorf("Stripped() = %q, want %q", got, "Do you want to proceed?\n")
	}

	// Repeated calls with no new input return the same snapshot.
	if got := a.Stripped(); got != "Do you want to proceed?\n" {
		t.Errorf("second Stripped() = %q", got)
	}
}

// TestLines verifies the line-split view.
func TestLines(t *testing.T) {
	a := New()
	if got := a.Lines(); got != nil {
		t.Errorf("Lines() on empty = %v, want nil", got)
	}
	a.Append([]byte("one\ntwo"))
	got := a.Lines()
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Errorf("Lines() = %v", got)
	}
}

// TestTrimDropsWholeLines verifies the cap drops oldest complete lines.
func TestTrimDropsWholeLines(t *testing.T) {
	a := NewWithLimit(32)
	a.Append([]byte("aaaaaaaaaaaaaaaa\n")) // 17 bytes
	a.Append([]byte("bbbbbbbbbbbbbbbb\n")) // over the cap
	a.Append([]byte("end\n"))

	raw := string(a.Raw())
	if strings.Contains(raw, "a") {
		t.Errorf("Raw() = %q, oldest line not dropped", raw)
	}
	if !strings.HasSuffix(raw, "end\n") {
		t.Errorf("Raw() = %q, newest content missing", raw)
	}
	if strings.HasPrefix(raw, "\n") {
		t.Errorf("Raw() = %q, trim left a dangling terminator", raw)
	}
}

// TestTrimUnterminatedLine verifies a single giant line is tail-trimmed
// rather than kept whole.
func TestTrimUnterminatedLine(t *testing.T) {
	a := NewWithLimit(16)
	a.Append(bytes.Repeat([]byte("x"), 64))
	if a.Len() > 16 {
		t.Errorf("Len() = %d, want <= 16", a.Len())
	}
}

// TestReset verifies a reset discards everything.
func TestReset(t *testing.T) {
	a := New()
	a.Append([]byte("content\n"))
	a.Reset()
	if a.Len() != 0 || a.Stripped() != "" || a.Lines() != nil {
		t.Error("Reset() left residual transcript")
	}
}
