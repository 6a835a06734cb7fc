package session

import (
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"

	"github.com/tendhq/tend/internal/clog"
	"github.com/tendhq/tend/internal/pattern"
	"github.com/tendhq/tend/internal/prompt"
	"github.com/tendhq/tend/internal/rules"
)

// confirmResult carries a confirmation outcome back into the loop.
type confirmResult struct {
	answer bool
	err    error
}

// Run starts the child and drives the session until it exits. The
// returned code is the child's exit code, or ExitInterrupted when the
// human interrupts a confirmation wait.
func (s *Session) Run() (int, error) {
	if err := s.start(); err != nil {
		return 1, err
	}

	restore := s.restoreFunc()
	defer restore()
	defer s.ptmx.Close()

	// Operational logs must not share the screen with the child.
	clog.SetSessionMode(true)
	defer clog.SetSessionMode(false)

	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, syscall.SIGWINCH, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	outCh := readChunks(s.ptmx)
	inCh := readChunks(s.stdin)

	done := make(chan int, 1)
	go func() {
		err := s.child.Wait()
		var exitErr *exec.ExitError
		switch {
		case err == nil:
			done <- 0
		case errors.As(err, &exitErr):
			done <- exitErr.ExitCode()
		default:
			clog.Error("session %s: wait: %v", s.id, err)
			done <- 1
		}
	}()

	for {
		select {
		case chunk, ok := <-outCh:
			if !ok {
				// Child closed its terminal; drain its exit status.
				code := <-done
				clog.Info("session %s: child exited with code %d", s.id, code)
				return code, nil
			}
			s.handleOutput(chunk)

		case chunk, ok := <-inCh:
			if !ok {
				inCh = nil
				continue
			}
			s.handleInput(chunk)

		case res := <-s.confirmCh:
			if errors.Is(res.err, prompt.ErrInterrupted) {
				s.abort()
				return ExitInterrupted, nil
			}
			s.resolvePending(res.answer)

		case sig := <-sigCh:
			switch sig {
			case syscall.SIGWINCH:
				if s.stdinTTY {
					if err := pty.InheritSize(s.stdin, s.ptmx); err != nil {
						clog.Warn("session: resize: %v", err)
					}
				}
			case os.Interrupt, syscall.SIGTERM:
				if s.pending != nil {
					s.abort()
					return ExitInterrupted, nil
				}
				if err := s.Signal(sig); err != nil {
					clog.Warn("session: forward %v: %v", sig, err)
				}
			}
		}
	}
}

// readChunks pumps reads from f onto a channel. The channel closes when
// the read side fails, which for a PTY master includes the child
// exiting.
func readChunks(f *os.File) <-chan []byte {
	ch := make(chan []byte, 8)
	go func() {
		defer close(ch)
		for {
			buf := make([]byte, 32*1024)
			n, err := f.Read(buf)
			if n > 0 {
				ch <- buf[:n]
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

// handleOutput processes one child output chunk: relay first,
// unconditionally, then accumulate and evaluate. Evaluation is deferred
// while a confirmation is pending so decisions keep causal order.
func (s *Session) handleOutput(chunk []byte) {
	_, _ = s.stdout.Write(chunk)
	s.buf.Append(chunk)

	if s.pending != nil {
		return
	}
	s.evaluate()
}

// evaluate runs the matcher over the accumulated transcript and acts on
// the decision for any reported match.
func (s *Session) evaluate() {
	m := s.matcher.Evaluate(s.buf.Stripped(), string(s.buf.Raw()))
	if m == nil {
		return
	}
	field := primaryField(m)
	_ = s.opts.Audit.LogMatch(m.PatternID, string(m.Kind), field)

	switch s.opts.Engine.Decide(m) {
	case rules.Accept:
		if m.Kind == pattern.KindTrust {
			_ = s.opts.Audit.LogTrust(m.PatternID, "accept")
		}
		s.respond(m)

	case rules.Deny:
		// No action: the content is simply displayed.
		if m.Kind == pattern.KindTrust {
			_ = s.opts.Audit.LogTrust(m.PatternID, "deny")
		} else {
			_ = s.opts.Audit.LogDeny(m.PatternID, string(m.Kind), field)
		}

	case rules.Ask:
		_ = s.opts.Audit.LogAsk(m.PatternID, string(m.Kind))
		if s.opts.NoAuto {
			return
		}
		s.pending = m
		confirmer := s.opts.Confirmer
		if confirmer == nil {
			if s.stdinTTY {
				// The keyboard feed is diverted here by handleInput; no
				// timeout for an interactive human.
				s.divert = make(chan []byte, 8)
				confirmer = prompt.NewChanConfirmer(s.divert, s.stdout)
			} else {
				confirmer = prompt.NewTTYConfirmer(s.stdout, s.opts.ConfirmTimeout)
			}
		}
		go func(m *pattern.Match, confirmer prompt.Confirmer) {
			answer, err := confirmer.Confirm(askLabel(m), false)
			s.confirmCh <- confirmResult{answer: answer, err: err}
		}(m, confirmer)
	}
}

// handleInput processes one keyboard chunk. Normally it is forwarded to
// the child verbatim; while a confirmation is pending on a terminal
// stdin it feeds the confirmer instead.
func (s *Session) handleInput(chunk []byte) {
	if s.pending != nil && s.divert != nil {
		// The confirmer drains this continuously while waiting; a full
		// buffer means it already resolved and the chunk is dropped.
		select {
		case s.divert <- chunk:
		default:
		}
		return
	}
	if s.ptmx != nil {
		if _, err := s.ptmx.Write(chunk); err != nil {
			clog.Debug("session: input relay: %v", err)
		}
	}
}

// resolvePending applies the human's answer to the pending match and
// re-evaluates the content buffered during the wait.
func (s *Session) resolvePending(answer bool) {
	m := s.pending
	if m == nil {
		return
	}
	s.pending = nil
	s.divert = nil
	if answer {
		_ = s.opts.Audit.LogConfirm(m.PatternID, "yes")
		s.respond(m)
	} else {
		_ = s.opts.Audit.LogConfirm(m.PatternID, "no")
	}
	s.evaluate()
}

// respond carries out an accepted match: dispatch its side effect, or
// write its response as synthetic keystrokes, each followed by Enter.
func (s *Session) respond(m *pattern.Match) {
	if m.Response.IsSideEffect() {
		if s.opts.Notifier != nil {
			s.opts.Notifier.Fire(m)
		}
		_ = s.opts.Audit.LogEffect(m.PatternID, m.Response.Action)
		return
	}
	if s.opts.NoAuto || m.Response.IsZero() {
		return
	}
	for _, key := range m.Response.Keys {
		if err := s.Write([]byte(key + "\r")); err != nil {
			clog.Warn("session: synthetic write: %v", err)
			return
		}
	}
	_ = s.opts.Audit.LogRespond(m.PatternID, string(m.Kind))
	clog.Info("session %s: responded to %s", s.id, m.PatternID)
}

// abort terminates the child; the session is exiting immediately.
func (s *Session) abort() {
	if s.child != nil && s.child.Process != nil {
		_ = s.child.Process.Kill()
	}
}

// primaryField picks the extracted value worth auditing, if any.
func primaryField(m *pattern.Match) string {
	for _, key := range []string{"command", "file", "path", "url", "domain", "directory"} {
		if v, ok := m.Extracted[key]; ok && v != "" {
			return v
		}
	}
	return ""
}
