// Package cmd implements the CLI commands for tend.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tendhq/tend/internal/version"
)

var (
	flagConfig  string
	flagRuleset string
	flagDebug   bool
	flagQuiet   bool
	flagNoAuto  bool
	flagTimeout string
	flagDirs    []string
)

// rootCmd represents the base command. Running it with a child command
// after -- starts an intercepted session.
var rootCmd = &cobra.Command{
	Use:   "tend [flags] -- command [args...]",
	Short: "Answer known terminal prompts automatically",
	Long: `Tend runs an interactive program (typically an AI coding agent CLI)
inside a pseudo-terminal and watches its output for known prompts. Each
recognized prompt is answered automatically, denied, or surfaced to you,
according to a declarative ruleset, while everything the program draws
reaches your terminal byte-identical.`,
	Version: version.Version,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runSession,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/tend/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress tend's own output")
	rootCmd.PersistentFlags().StringArrayVar(&flagDirs, "patterns", nil, "extra pattern directory (repeatable)")

	rootCmd.Flags().StringVar(&flagRuleset, "ruleset", "", "ruleset file overriding the configured ruleset")
	rootCmd.Flags().BoolVar(&flagNoAuto, "no-auto", false, "observe and record decisions without acting on them")
	rootCmd.Flags().StringVar(&flagTimeout, "timeout", "", "confirmation timeout on the fallback terminal (e.g. 30s)")
}

// Execute runs the root command and returns any error.
func Execute() error {
	return rootCmd.Execute()
}
