// Package term provides user-facing terminal output for the tend CLI.
// This is distinct from operational logging (see internal/clog).
//
// Output is instance-based: a Printer is created once per run and passed
// to whatever needs it, so quiet mode is a field rather than ambient
// process state.
//
// Output methods:
//   - Print/Printf/Println: Normal output to stdout (suppressed when quiet)
//   - Warn: Warnings to stderr (NOT suppressed when quiet)
//   - Error: Errors to stderr (NOT suppressed when quiet)
package term

import (
	"fmt"
	"io"
	"os"
)

// Printer writes user-facing output to a stdout/stderr writer pair.
type Printer struct {
	stdout io.Writer
	stderr io.Writer
	quiet  bool
}

// New creates a Printer writing to out and errOut. Nil writers default to
// os.Stdout and os.Stderr respectively.
func New(out, errOut io.Writer, quiet bool) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{stdout: out, stderr: errOut, quiet: quiet}
}

// Discard returns a Printer that drops all output, including warnings.
// Useful for silencing output in tests.
func Discard() *Printer {
	return &Printer{stdout: io.Discard, stderr: io.Discard}
}

// Quiet reports whether normal output is suppressed.
func (p *Printer) Quiet() bool {
	return p.quiet
}

// Print formats and writes to stdout.
// Suppressed when quiet mode is enabled.
func (p *Printer) Print(a ...any) {
	if p.quiet {
		return
	}
	_, _ = fmt.Fprint(p.stdout, a...)
}

// Printf formats according to a format specifier and writes to stdout.
// Suppressed when quiet mode is enabled.
func (p *Printer) Printf(format string, a ...any) {
	if p.quiet {
		return
	}
	_, _ = fmt.Fprintf(p.stdout, format, a...)
}

// Println formats and writes to stdout with a trailing newline.
// Suppressed when quiet mode is enabled.
func (p *Printer) Println(a ...any) {
	if p.quiet {
		return
	}
	_, _ = fmt.Fprintln(p.stdout, a...)
}

// Warn writes a warning message to stderr with "Warning: " prefix.
// NOT suppressed by quiet mode.
func (p *Printer) Warn(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	_, _ = fmt.Fprintf(p.stderr, "Warning: %s\n", msg)
}

// Error writes an error message to stderr with "Error: " prefix.
// NOT suppressed by quiet mode.
func (p *Printer) Error(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	_, _ = fmt.Fprintf(p.stderr, "Error: %s\n", msg)
}

// Stdout returns the stdout writer, or io.Discard in quiet mode.
// Useful for passing to libraries that need an io.Writer (e.g., tabwriter).
func (p *Printer) Stdout() io.Writer {
	if p.quiet {
		return io.Discard
	}
	return p.stdout
}

// Stderr returns the stderr writer.
func (p *Printer) Stderr() io.Writer {
	return p.stderr
}
