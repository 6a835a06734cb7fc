// Package audit provides structured logging of match and decision
// events. Log entries follow a key=value format suitable for parsing
// and analysis.
package audit

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// EventType represents the type of session event.
type EventType string

// Event types for matcher and rule-engine activity.
const (
	// EventMatch records that a pattern matched the transcript.
	EventMatch EventType = "MATCH"
	// EventRespond records an automatic synthetic response.
	EventRespond EventType = "RESPOND"
	// EventAsk records that a prompt was surfaced to the human.
	EventAsk EventType = "ASK"
	// EventConfirm records the human's answer to a surfaced prompt.
	EventConfirm EventType = "CONFIRM"
	// EventDeny records a ruleset denial (no action taken).
	EventDeny EventType = "DENY"
	// EventTrust records a trust-root resolution.
	EventTrust EventType = "TRUST"
	// EventEffect records a dispatched side effect.
	EventEffect EventType = "EFFECT"
)

// Event represents one audit log entry.
type Event struct {
	// Timestamp is when the event occurred.
	Timestamp time.Time

	// Type is the event type (MATCH, RESPOND, etc.)
	Type EventType

	// Session is the session id.
	Session string

	// Pattern is the matched pattern id.
	Pattern string

	// Kind is the pattern kind.
	Kind string

	// Field is the extracted value the decision was made on
	// (command, path, domain).
	Field string

	// Decision is the rule engine outcome (accept/deny/ask).
	Decision string

	// Answer is the human's answer (for CONFIRM events).
	Answer string

	// Reason carries error or timeout context.
	Reason string
}

// Format returns the log entry as a formatted string.
// Format: 2024-01-15T14:32:05Z TEND RESPOND session=... pattern="claude-edit-file" ...
func (e *Event) Format() string {
	var b strings.Builder

	b.WriteString(e.Timestamp.UTC().Format(time.RFC3339))
	b.WriteString(" TEND ")
	b.WriteString(string(e.Type))

	b.WriteString(" session=")
	b.WriteString(e.Session)

	writeOptionalField(&b, "pattern", e.Pattern)
	writeOptionalField(&b, "kind", e.Kind)
	writeOptionalField(&b, "field", e.Field)
	writeOptionalField(&b, "decision", e.Decision)
	writeOptionalField(&b, "answer", e.Answer)
	writeOptionalField(&b, "reason", e.Reason)

	return b.String()
}

// writeOptionalField appends " key=quoted_value" to the builder if value is non-empty.
func writeOptionalField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString("=")
	b.WriteString(fmt.Sprintf("%q", value))
}

// Logger writes audit events to an io.Writer. A nil Logger or writer
// discards everything, so callers never need to guard their calls.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	session string
}

// NewLogger creates an audit logger for one session, writing to w.
func NewLogger(w io.Writer, session string) *Logger {
	return &Logger{w: w, session: session}
}

// Log writes an event to the audit log.
func (l *Logger) Log(e *Event) error {
	if l == nil || l.w == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if e.Session == "" {
		e.Session = l.session
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	line := e.Format() + "\n"
	if _, err := l.w.Write([]byte(line)); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

// LogMatch logs a MATCH event.
func (l *Logger) LogMatch(patternID, kind, field string) error {
	return l.Log(&Event{Type: EventMatch, Pattern: patternID, Kind: kind, Field: field})
}

// LogRespond logs a RESPOND event for an automatic response.
func (l *Logger) LogRespond(patternID, kind string) error {
	return l.Log(&Event{Type: EventRespond, Pattern: patternID, Kind: kind, Decision: "accept"})
}

// LogAsk logs an ASK event.
func (l *Logger) LogAsk(patternID, kind string) error {
	return l.Log(&Event{Type: EventAsk, Pattern: patternID, Kind: kind, Decision: "ask"})
}

// LogConfirm logs the human's answer to a surfaced prompt.
func (l *Logger) LogConfirm(patternID, answer string) error {
	return l.Log(&Event{Type: EventConfirm, Pattern: patternID, Answer: answer})
}

// LogDeny logs a DENY event.
func (l *Logger) LogDeny(patternID, kind, field string) error {
	return l.Log(&Event{Type: EventDeny, Pattern: patternID, Kind: kind, Field: field, Decision: "deny"})
}

// LogTrust logs a trust-root resolution.
func (l *Logger) LogTrust(patternID, decision string) error {
	return l.Log(&Event{Type: EventTrust, Pattern: patternID, Decision: decision})
}

// LogEffect logs a dispatched side effect.
func (l *Logger) LogEffect(patternID, action string) error {
	return l.Log(&Event{Type: EventEffect, Pattern: patternID, Field: action})
}
