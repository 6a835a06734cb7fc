package rules

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/tendhq/tend/internal/clog"
	"github.com/tendhq/tend/internal/pathutil"
	"github.com/tendhq/tend/internal/term"
)

var bannerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("10")).
	Bold(true)

// TrustResolver decides directory-trust prompts. A working directory is
// trusted when its immediate parent exactly matches a configured root;
// directories two or more levels below a root are not trusted.
type TrustResolver struct {
	roots     []string
	printer   *term.Printer
	announced bool

	// workdir is swappable for tests; defaults to os.Getwd.
	workdir func() (string, error)
}

// NewTrustResolver creates a resolver over the configured roots.
// A leading ~ in each root is expanded.
func NewTrustResolver(roots []string, printer *term.Printer) *TrustResolver {
	expanded := make([]string, 0, len(roots))
	for _, root := range roots {
		expanded = append(expanded, pathutil.ExpandHome(root))
	}
	return &TrustResolver{
		roots:   expanded,
		printer: printer,
		workdir: os.Getwd,
	}
}

// Resolve decides the current directory-trust prompt. On a parent match
// it accepts and prints a one-time advisory banner naming the trusted
// root; on no match, or on any error retrieving the working directory,
// it denies silently.
func (t *TrustResolver) Resolve() Decision {
	cwd, err := t.workdir()
	if err != nil {
		clog.Warn("trust: cannot determine working directory: %v", err)
		return Deny
	}

	parent := pathutil.Parent(cwd)
	for _, root := range t.roots {
		if parent == root {
			t.announce(root)
			return Accept
		}
	}
	return Deny
}

// announce prints the advisory banner, once per session.
func (t *TrustResolver) announce(root string) {
	if t.announced {
		return
	}
	t.announced = true
	clog.Info("trust: accepted directory-trust prompt under root %s", root)
	t.printer.Println(bannerStyle.Render(
		"tend: trusted (parent directory " + pathutil.CollapseHome(root) + " is a configured trust root)"))
}
