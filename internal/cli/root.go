// Package cli provides the Cobra command structure for xmltools.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emredjan/xml-validation/internal/logging"
	"github.com/emredjan/xml-validation/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Persistent flag names shared by every subcommand.
const (
	flagDebug    = "debug"
	flagConfig   = "config"
	flagColor    = "color"
	flagNoConfig = "no-config"
)

// NewRootCommand creates the root xmltools command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var color string

	rootCmd := &cobra.Command{
		Use:   "xmltools",
		Short: "Check, trim and validate XML files",
		Long: `xmltools checks XML files for well-formedness, rewrites them with
formatting-only whitespace removed and canonical indentation, and validates
them against an XSD schema.

Use the check and validate commands for single files or whole directory
trees, trim to reformat a file, and shell for an interactive session that
keeps the checked document between steps.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				logging.SetLevel("debug")
			}
			if !config.ColorMode(color).IsValid() {
				return withExitCode(ExitInvalidUsage,
					fmt.Errorf("invalid --color %q: must be auto, always or never", color))
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
			return nil
		},
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, flagDebug, false, "enable debug logging")
	rootCmd.PersistentFlags().String(flagConfig, "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, flagColor, string(config.ColorAuto),
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().Bool(flagNoConfig, false, "ignore all configuration files")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(ExitInvalidUsage, err)
	})

	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newTrimCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newShellCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// usageArgs tags argument validation errors with ExitInvalidUsage.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return withExitCode(ExitInvalidUsage, validate(cmd, args))
	}
}
