package audit

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// TestEventFormat verifies the key=value log line layout.
func TestEventFormat(t *testing.T) {
	ts := time.Date(2026, 3, 15, 14, 32, 5, 0, time.UTC)

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name: "match with field",
			event: Event{
				Timestamp: ts,
				Type:      EventMatch,
				Session:   "abc-123",
				Pattern:   "claude-bash-command",
				Kind:      "bash-command",
				Field:     "git push origin main",
			},
			want: `2026-03-15T14:32:05Z TEND MATCH session=abc-123 pattern="claude-bash-command" kind="bash-command" field="git push origin main"`,
		},
		{
			name: "confirm answer",
			event: Event{
				Timestamp: ts,
				Type:      EventConfirm,
				Session:   "abc-123",
				Pattern:   "claude-edit-file",
				Answer:    "no",
			},
			want: `2026-03-15T14:32:05Z TEND CONFIRM session=abc-123 pattern="claude-edit-file" answer="no"`,
		},
		{
			name: "empty fields omitted",
			event: Event{
				Timestamp: ts,
				Type:      EventDeny,
				Session:   "abc-123",
			},
			want: "2026-03-15T14:32:05Z TEND DENY session=abc-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Format(); got != tt.want {
				t.Errorf("Format()\n got %s\nwant %s", got, tt.want)
			}
		})
	}
}

// TestFormatQuotesValues verifies values with spaces and quotes stay
// parseable.
func TestFormatQuotesValues(t *testing.T) {
	e := Event{
		Timestamp: time.Now(),
		Type:      EventMatch,
		Session:   "s",
		Field:     `echo "hello world"`,
	}
	got := e.Format()
	if !strings.Contains(got, `field="echo \"hello world\""`) {
		t.Errorf("Format() = %s, quotes not escaped", got)
	}
}

// TestLoggerFillsDefaults verifies the logger stamps session and time.
func TestLoggerFillsDefaults(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "session-1")

	if err := l.LogMatch("claude-edit-file", "edit-file", "main.go"); err != nil {
		t.Fatalf("LogMatch() error = %v", err)
	}

	line := buf.String()
	if !strings.Contains(line, "session=session-1") {
		t.Errorf("line %q missing session", line)
	}
	if !strings.HasSuffix(line, "\n") {
		t.Error("log line not newline-terminated")
	}
	if !strings.Contains(line, "TEND MATCH") {
		t.Errorf("line %q missing event type", line)
	}
}

// TestLoggerNilSafe verifies nil loggers and writers are no-ops.
func TestLoggerNilSafe(t *testing.T) {
	var l *Logger
	if err := l.LogAsk("p", "k"); err != nil {
		t.Errorf("nil logger LogAsk() error = %v", err)
	}

	empty := NewLogger(nil, "s")
	if err := empty.LogRespond("p", "k"); err != nil {
		t.Errorf("nil writer LogRespond() error = %v", err)
	}
}

// TestLoggerHelpers verifies each helper emits its type and decision.
func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "s")

	tests := []struct {
		log  func() error
		want []string
	}{
		{func() error { return l.LogRespond("p", "k") }, []string{"TEND RESPOND", `decision="accept"`}},
		{func() error { return l.LogAsk("p", "k") }, []string{"TEND ASK", `decision="ask"`}},
		{func() error { return l.LogConfirm("p", "yes") }, []string{"TEND CONFIRM", `answer="yes"`}},
		{func() error { return l.LogDeny("p", "k", "f") }, []string{"TEND DENY", `decision="deny"`}},
		{func() error { return l.LogTrust("p", "accept") }, []string{"TEND TRUST", `decision="accept"`}},
		{func() error { return l.LogEffect("p", "notify") }, []string{"TEND EFFECT", `field="notify"`}},
	}

	for _, tt := range tests {
		buf.Reset()
		if err := tt.log(); err != nil {
			t.Fatalf("log error = %v", err)
		}
		for _, want := range tt.want {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("line %q missing %q", buf.String(), want)
			}
		}
	}
}
