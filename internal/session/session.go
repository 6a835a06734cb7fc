// Package session owns the child process and its pseudo-terminal. It
// relays bytes bidirectionally between the real terminal and the child,
// feeds stripped output into the pattern matcher, consults the rules
// engine on matches, and performs synthetic writes back to the child
// when a prompt is auto-answered.
//
// Processing is single-threaded and cooperatively sequenced: reader
// goroutines only move bytes onto channels, and every output chunk is
// fully processed (buffer update, match, decision, optional synthetic
// write) by the one loop goroutine before the next chunk's processing
// begins. The transcript, dedup cache, and registry are owned by the
// loop and never touched elsewhere, so no locking is needed.
package session

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/creack/pty"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/tendhq/tend/internal/audit"
	"github.com/tendhq/tend/internal/buffer"
	"github.com/tendhq/tend/internal/clog"
	"github.com/tendhq/tend/internal/notify"
	"github.com/tendhq/tend/internal/pattern"
	"github.com/tendhq/tend/internal/prompt"
	"github.com/tendhq/tend/internal/rules"
	tendterm "github.com/tendhq/tend/internal/term"
)

// ExitInterrupted is the fixed exit code when an interrupt arrives
// during a confirmation wait.
const ExitInterrupted = 130

var askStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("11")).
	Bold(true)

// Options configures a session.
type Options struct {
	// ID identifies the session in logs and audit events. A fresh id is
	// generated when empty.
	ID string

	// Command is the child argv. Must be non-empty.
	Command []string

	// Registry holds the patterns to recognize.
	Registry *pattern.Registry

	// Engine decides matched prompts.
	Engine *rules.Engine

	// Printer receives user-facing output (banners, errors).
	Printer *tendterm.Printer

	// Audit receives the decision trail. May be nil.
	Audit *audit.Logger

	// Notifier dispatches side-effect responses.
	Notifier *notify.Notifier

	// NoAuto observes and records decisions without ever writing
	// synthetic responses or prompting.
	NoAuto bool

	// Confirmer overrides how surfaced prompts are confirmed. When nil,
	// the session picks one itself: the diverted keyboard when stdin is
	// a terminal, the fallback terminal device otherwise.
	Confirmer prompt.Confirmer

	// ConfirmTimeout bounds confirmation waits on the fallback terminal
	// device. Ignored when stdin is a terminal.
	ConfirmTimeout time.Duration

	// Stdin and Stdout default to the process's own.
	Stdin  *os.File
	Stdout *os.File
}

// Session runs one child process under interception.
type Session struct {
	id       string
	opts     Options
	buf      *buffer.Accumulator
	matcher  *pattern.Matcher
	child    *exec.Cmd
	ptmx     *os.File
	stdin    *os.File
	stdout   *os.File
	stdinTTY bool

	// pending is the match awaiting the human's answer; while set,
	// pattern evaluation is deferred and keyboard input is diverted
	// from the child to the confirmation.
	pending *pattern.Match

	// confirmCh carries confirmation outcomes back into the loop.
	confirmCh chan confirmResult

	// divert feeds keyboard chunks to the active confirmer while a
	// confirmation is pending on a terminal stdin.
	divert chan []byte
}

// New creates a session. The pattern registry and transcript are
// exclusively owned by the returned session.
func New(opts Options) (*Session, error) {
	if len(opts.Command) == 0 {
		return nil, fmt.Errorf("session: no command given")
	}
	if opts.Registry == nil || opts.Engine == nil {
		return nil, fmt.Errorf("session: registry and engine are required")
	}
	if opts.Printer == nil {
		opts.Printer = tendterm.New(nil, nil, false)
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:        id,
		opts:      opts,
		buf:       buffer.New(),
		matcher:   pattern.NewMatcher(opts.Registry),
		stdin:     stdin,
		stdout:    stdout,
		stdinTTY:  term.IsTerminal(int(stdin.Fd())),
		confirmCh: make(chan confirmResult, 1),
	}, nil
}

// ID returns the session id used in audit events.
func (s *Session) ID() string {
	return s.id
}

// Write performs a synthetic write to the child's terminal, bypassing
// real user input.
func (s *Session) Write(b []byte) error {
	_, err := s.ptmx.Write(b)
	return err
}

// Resize sets the child terminal's dimensions.
func (s *Session) Resize(cols, rows uint16) error {
	return pty.Setsize(s.ptmx, &pty.Winsize{Cols: cols, Rows: rows})
}

// Signal forwards a signal to the child process.
func (s *Session) Signal(sig os.Signal) error {
	if s.child == nil || s.child.Process == nil {
		return fmt.Errorf("session: child not running")
	}
	return s.child.Process.Signal(sig)
}

// start launches the child inside a fresh pseudo-terminal sized to the
// real terminal (or 80x24 when stdin is not a terminal).
func (s *Session) start() error {
	cmd := exec.Command(s.opts.Command[0], s.opts.Command[1:]...)
	cmd.Env = os.Environ()

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("start %s: %w", s.opts.Command[0], err)
	}
	s.child = cmd
	s.ptmx = ptmx

	if s.stdinTTY {
		if err := pty.InheritSize(s.stdin, ptmx); err != nil {
			clog.Warn("session: inherit terminal size: %v", err)
		}
	} else {
		_ = pty.Setsize(ptmx, &pty.Winsize{Cols: 80, Rows: 24})
	}
	clog.Info("session %s: started %v (pid %d)", s.id, s.opts.Command, cmd.Process.Pid)
	return nil
}

// restoreFunc puts the real terminal back the way we found it: cooked
// mode and a visible cursor. It is registered on every exit path and is
// safe to call more than once.
func (s *Session) restoreFunc() func() {
	var oldState *term.State
	if s.stdinTTY {
		var err error
		oldState, err = term.MakeRaw(int(s.stdin.Fd()))
		if err != nil {
			clog.Warn("session: raw mode: %v", err)
		}
	}
	out := termenv.NewOutput(s.stdout)
	restored := false
	return func() {
		if restored {
			return
		}
		restored = true
		if oldState != nil {
			_ = term.Restore(int(s.stdin.Fd()), oldState)
		}
		out.ShowCursor()
	}
}

// askLabel renders the confirmation question for a surfaced prompt.
// The leading CR+LF breaks out of whatever partial line the child left.
func askLabel(m *pattern.Match) string {
	title := m.Title
	if title == "" {
		title = m.PatternID
	}
	return "\r\n" + askStyle.Render("tend: "+title+": respond automatically?") + " [y/N] "
}
