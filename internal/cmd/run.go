package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tendhq/tend/internal/audit"
	"github.com/tendhq/tend/internal/clog"
	"github.com/tendhq/tend/internal/config"
	"github.com/tendhq/tend/internal/notify"
	"github.com/tendhq/tend/internal/pattern"
	"github.com/tendhq/tend/internal/rules"
	"github.com/tendhq/tend/internal/session"
	"github.com/tendhq/tend/internal/term"
)

// runSession wires configuration, patterns, rules, and side effects into
// a session and runs the child under it.
func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadEffectiveConfig()
	if err != nil {
		return err
	}
	if len(flagDirs) > 0 {
		cfg.PatternDirs = append(cfg.PatternDirs, flagDirs...)
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = clog.DefaultLogPath()
	}
	if err := clog.Configure(logFile, flagDebug); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer clog.Close()
	if cfg.Log.Level != "" && !flagDebug {
		clog.SetLevel(clog.ParseLevel(cfg.Log.Level))
	}

	printer := term.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), flagQuiet)

	reg := pattern.NewRegistry()
	loaded, err := config.LoadPatterns(cfg)
	if err != nil {
		return err
	}
	if err := config.Register(reg, loaded); err != nil {
		return err
	}
	if reg.Len() == 0 {
		printer.Warn("no patterns registered; running in plain passthrough mode")
	}
	clog.Info("registered %d pattern(s)", reg.Len())

	trust := rules.NewTrustResolver(cfg.TrustRoots, printer)
	engine := rules.NewEngine(cfg, trust)

	sessionID := uuid.NewString()
	var auditLogger *audit.Logger
	if cfg.Log.Audit != "" {
		f, err := clog.OpenLogFile(cfg.Log.Audit)
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		defer f.Close()
		auditLogger = audit.NewLogger(f, sessionID)
	}

	timeout, err := confirmTimeout(cfg)
	if err != nil {
		return err
	}

	sess, err := session.New(session.Options{
		ID:             sessionID,
		Command:        args,
		Registry:       reg,
		Engine:         engine,
		Printer:        printer,
		Audit:          auditLogger,
		Notifier:       notify.New(cfg.Notify),
		NoAuto:         flagNoAuto,
		ConfirmTimeout: timeout,
	})
	if err != nil {
		return err
	}

	code, err := sess.Run()
	if err != nil {
		return err
	}
	if code != 0 {
		return NewExitCodeError(code)
	}
	return nil
}

// loadEffectiveConfig loads the global config and overlays the project
// config from the working directory, if present.
func loadEffectiveConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		// Trust resolution degrades to deny on the same condition; the
		// overlay is simply skipped.
		return cfg, nil
	}
	project, err := config.LoadProject(cwd)
	if err != nil {
		return nil, err
	}
	cfg = config.Merge(cfg, project)

	if flagRuleset != "" {
		rs, err := config.LoadRuleset(flagRuleset)
		if err != nil {
			return nil, err
		}
		cfg.Ruleset = *rs
	}
	return cfg, nil
}

// confirmTimeout resolves the confirmation timeout: flag over config
// over no bound.
func confirmTimeout(cfg *config.Config) (time.Duration, error) {
	raw := cfg.Confirm.Timeout
	if flagTimeout != "" {
		raw = flagTimeout
	}
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid confirmation timeout %q: %w", raw, err)
	}
	return d, nil
}
