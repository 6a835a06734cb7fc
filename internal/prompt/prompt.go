// Package prompt provides interfaces and implementations for the y/N
// confirmation waits a session uses when a prompt must be surfaced to
// the human, designed for testability with mock implementations.
//
// The terminal is in raw mode while a session runs, so real
// implementations interpret single keystrokes rather than buffered
// lines: y/Y answers yes, n/N answers no, Enter takes the default, and
// Ctrl-C aborts the whole session.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tendhq/tend/internal/clog"
)

// ErrInterrupted is returned when the human interrupts a confirmation
// wait (Ctrl-C). The session terminates immediately on this error.
var ErrInterrupted = errors.New("confirmation interrupted")

// Confirmer presents a yes/no question and returns the answer.
// If the human presses Enter without input, defaultYes determines the
// result.
type Confirmer interface {
	Confirm(label string, defaultYes bool) (bool, error)
}

// Interpret maps a raw input byte to an answer. ok is false while the
// byte doesn't resolve the question.
func Interpret(b byte, defaultYes bool) (answer bool, ok bool, err error) {
	switch b {
	case 'y', 'Y':
		return true, true, nil
	case 'n', 'N':
		return false, true, nil
	case '\r', '\n':
		return defaultYes, true, nil
	case 0x03: // Ctrl-C
		return false, false, ErrInterrupted
	case 0x1b: // Esc
		return false, true, nil
	default:
		return false, false, nil
	}
}

// ChanConfirmer reads answers from a byte-chunk channel: the session's
// diverted keyboard feed. While a confirmation is pending the session
// routes user input here instead of to the child.
type ChanConfirmer struct {
	In  <-chan []byte
	Out io.Writer
}

// NewChanConfirmer creates a ChanConfirmer reading from in and writing
// the question to out.
func NewChanConfirmer(in <-chan []byte, out io.Writer) *ChanConfirmer {
	return &ChanConfirmer{In: in, Out: out}
}

// Confirm displays the label and waits for a resolving keystroke.
// A closed input channel resolves to the default answer.
func (c *ChanConfirmer) Confirm(label string, defaultYes bool) (bool, error) {
	_, _ = fmt.Fprint(c.Out, label)
	for chunk := range c.In {
		for _, b := range chunk {
			answer, ok, err := Interpret(b, defaultYes)
			if err != nil {
				return false, err
			}
			if ok {
				echoAnswer(c.Out, answer)
				return answer, nil
			}
		}
	}
	return defaultYes, nil
}

// TTYConfirmer reads answers from a secondary terminal device, used when
// the main input channel is a pipe. The wait is bounded: on timeout, or
// when the device cannot be opened, the default (safe) answer is
// returned.
type TTYConfirmer struct {
	// Path is the terminal device, "/dev/tty" by default.
	Path string

	// Out receives the question text.
	Out io.Writer

	// Timeout bounds the wait. Zero or negative means no bound.
	Timeout time.Duration
}

// NewTTYConfirmer creates a TTYConfirmer over /dev/tty.
func NewTTYConfirmer(out io.Writer, timeout time.Duration) *TTYConfirmer {
	return &TTYConfirmer{Path: "/dev/tty", Out: out, Timeout: timeout}
}

// Confirm displays the label and waits for a resolving keystroke on the
// terminal device.
func (c *TTYConfirmer) Confirm(label string, defaultYes bool) (bool, error) {
	tty, err := os.OpenFile(c.Path, os.O_RDWR, 0)
	if err != nil {
		clog.Warn("prompt: open %s: %v (using default answer)", c.Path, err)
		return defaultYes, nil
	}
	defer tty.Close()

	_, _ = fmt.Fprint(c.Out, label)

	type keyResult struct {
		answer bool
		err    error
	}
	results := make(chan keyResult, 1)
	go func() {
		buf := make([]byte, 16)
		for {
			n, err := tty.Read(buf)
			if err != nil {
				results <- keyResult{defaultYes, nil}
				return
			}
			for _, b := range buf[:n] {
				answer, ok, err := Interpret(b, defaultYes)
				if err != nil {
					results <- keyResult{false, err}
					return
				}
				if ok {
					results <- keyResult{answer, nil}
					return
				}
			}
		}
	}()

	if c.Timeout <= 0 {
		res := <-results
		if res.err == nil {
			echoAnswer(c.Out, res.answer)
		}
		return res.answer, res.err
	}

	timer := time.NewTimer(c.Timeout)
	defer timer.Stop()
	select {
	case res := <-results:
		if res.err == nil {
			echoAnswer(c.Out, res.answer)
		}
		return res.answer, res.err
	case <-timer.C:
		clog.Info("prompt: confirmation timed out, using default answer")
		_, _ = fmt.Fprintln(c.Out, "(timeout)")
		return defaultYes, nil
	}
}

// echoAnswer prints the chosen answer; raw mode means the keystroke
// itself was never echoed.
func echoAnswer(w io.Writer, answer bool) {
	if answer {
		_, _ = fmt.Fprint(w, "y\r\n")
	} else {
		_, _ = fmt.Fprint(w, "n\r\n")
	}
}

// MockConfirmer implements Confirmer for testing, returning
// pre-configured responses.
type MockConfirmer struct {
	// Responses is a queue of answers to return for successive calls.
	Responses []bool
	// Errors is a queue of errors to return for successive calls.
	// If non-nil, the error is returned instead of the response.
	Errors []error
	// Calls records all calls made to Confirm for verification.
	Calls []MockConfirmerCall

	callIndex int
}

// MockConfirmerCall records a single call to Confirm.
type MockConfirmerCall struct {
	Label      string
	DefaultYes bool
}

// NewMockConfirmer creates a MockConfirmer with the given responses.
func NewMockConfirmer(responses ...bool) *MockConfirmer {
	return &MockConfirmer{Responses: responses}
}

// Confirm returns the next pre-configured response or error.
func (m *MockConfirmer) Confirm(label string, defaultYes bool) (bool, error) {
	m.Calls = append(m.Calls, MockConfirmerCall{Label: label, DefaultYes: defaultYes})

	if m.callIndex < len(m.Errors) && m.Errors[m.callIndex] != nil {
		err := m.Errors[m.callIndex]
		m.callIndex++
		return false, err
	}

	if m.callIndex < len(m.Responses) {
		response := m.Responses[m.callIndex]
		m.callIndex++
		return response, nil
	}

	m.callIndex++
	return defaultYes, nil
}
