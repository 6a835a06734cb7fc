// Package notify dispatches side-effect responses: appending to an
// operator-chosen log file, or raising a best-effort desktop
// notification. Dispatch never blocks the session loop and never fails
// it; errors go to the operational log.
package notify

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/tendhq/tend/internal/clog"
	"github.com/tendhq/tend/internal/config"
	"github.com/tendhq/tend/internal/pathutil"
	"github.com/tendhq/tend/internal/pattern"
)

// Notifier dispatches side-effect responses for one session.
type Notifier struct {
	desktop bool
	command string // override for the desktop notification command

	// run is swappable for tests; defaults to starting the command
	// without waiting.
	run func(name string, args ...string) error
}

// New creates a Notifier from configuration.
func New(cfg config.NotifyConfig) *Notifier {
	return &Notifier{
		desktop: cfg.Desktop == nil || *cfg.Desktop,
		command: cfg.Command,
		run:     startDetached,
	}
}

// Fire dispatches the side effect carried by a match's response.
// Responses that are not side effects are ignored.
func (n *Notifier) Fire(m *pattern.Match) {
	if !m.Response.IsSideEffect() {
		return
	}
	switch m.Response.Action {
	case "log":
		n.appendLog(m)
	case "notify":
		n.desktopNotify(m)
	}
}

// appendLog appends one line describing the match to the response's
// target file.
func (n *Notifier) appendLog(m *pattern.Match) {
	path := pathutil.ExpandHome(m.Response.Path)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		clog.Warn("notify: open log %s: %v", path, err)
		return
	}
	defer f.Close()

	line := fmt.Sprintf("%s %s %s\n",
		time.Now().UTC().Format(time.RFC3339), m.PatternID, message(m))
	if _, err := f.WriteString(line); err != nil {
		clog.Warn("notify: write log %s: %v", path, err)
	}
}

// desktopNotify raises a desktop notification, silently skipped when
// disabled or when no notification command is available.
func (n *Notifier) desktopNotify(m *pattern.Match) {
	if !n.desktop {
		return
	}
	msg := message(m)

	if n.command != "" {
		if err := n.run(n.command, m.Title, msg); err != nil {
			clog.Warn("notify: %s: %v", n.command, err)
		}
		return
	}

	var err error
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", msg, "tend: "+m.Title)
		err = n.run("osascript", "-e", script)
	default:
		err = n.run("notify-send", "tend: "+m.Title, msg)
	}
	if err != nil {
		clog.Debug("notify: desktop notification unavailable: %v", err)
	}
}

// message picks the notification text: the response's configured
// message, or the first line of the matched text.
func message(m *pattern.Match) string {
	if m.Response.Message != "" {
		return m.Response.Message
	}
	text := m.MatchedText
	if i := strings.IndexByte(text, '\n'); i != -1 {
		text = text[:i]
	}
	return text
}

// startDetached starts the command without waiting for it, so a slow or
// hung notifier daemon cannot stall the session loop.
func startDetached(name string, args ...string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return err
	}
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
