package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tendhq/tend/internal/config"
	"github.com/tendhq/tend/internal/pathutil"
	"github.com/tendhq/tend/internal/pattern"
	"github.com/tendhq/tend/internal/term"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the patterns a session would register",
	Args:  cobra.NoArgs,
	RunE:  runPatterns,
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	cfg, err := loadEffectiveConfig()
	if err != nil {
		return err
	}
	if len(flagDirs) > 0 {
		cfg.PatternDirs = append(cfg.PatternDirs, flagDirs...)
	}

	loaded, err := config.LoadPatterns(cfg)
	if err != nil {
		return err
	}

	// Compile everything so a broken pattern file surfaces here, not at
	// session start.
	reg := pattern.NewRegistry()
	if err := config.Register(reg, loaded); err != nil {
		return err
	}

	printer := term.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), flagQuiet)
	w := tabwriter.NewWriter(printer.Stdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tSOURCE\tTITLE")
	for _, lp := range loaded {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			lp.Definition.ID, lp.Definition.Kind,
			pathutil.CollapseHome(lp.Source), lp.Definition.Title)
	}
	return w.Flush()
}
