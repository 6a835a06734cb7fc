package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tendhq/tend/internal/config"
	"github.com/tendhq/tend/internal/pathutil"
	"github.com/tendhq/tend/internal/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tend configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := term.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), flagQuiet)
		printer.Println(config.GlobalConfigPath())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefaultConfig(); err != nil {
			return err
		}
		if err := config.EnsurePatternsDir(); err != nil {
			return err
		}
		printer := term.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), flagQuiet)
		printer.Printf("wrote %s\n", pathutil.CollapseHome(config.GlobalConfigPath()))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
