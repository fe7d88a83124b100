package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/emredjan/xml-validation/internal/logging"
	"github.com/emredjan/xml-validation/internal/session"
	"github.com/emredjan/xml-validation/internal/ui/pretty"
	"github.com/emredjan/xml-validation/pkg/config"
	"github.com/emredjan/xml-validation/pkg/fsutil"
	"github.com/emredjan/xml-validation/pkg/reporter"
	"github.com/emredjan/xml-validation/pkg/textdiff"
	"github.com/emredjan/xml-validation/pkg/xmlops"
)

// errNoBackup is returned by trim --restore when no backup exists.
var errNoBackup = errors.New("no backup found")

type trimFlags struct {
	output  string
	indent  int
	tabs    bool
	backup  bool
	restore bool
	diff    bool
	stdout  bool
	dryRun  bool
}

func newTrimCommand() *cobra.Command {
	flags := &trimFlags{}

	cmd := &cobra.Command{
		Use:   "trim <file>",
		Short: "Remove formatting whitespace and re-indent an XML file",
		Long: `Remove formatting-only whitespace from an XML file and write it back
out with canonical indentation, UTF-8 encoding and an XML declaration.

The output defaults to the input name with "_trimmed" inserted before the
extension, next to the input. The input is never modified unless it is
named as the output.

Examples:
  xmltools trim order.xml                 # Writes order_trimmed.xml
  xmltools trim order.xml -o order.xml    # Trim in place
  xmltools trim order.xml --tabs          # Indent with tabs
  xmltools trim order.xml --diff          # Preview changes, write nothing
  xmltools trim order.xml -o order.xml --backup   # Keep order.xml.bak
  xmltools trim order.xml -o order.xml --restore  # Put the backup back`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrim(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default <name>_trimmed<ext>)")
	cmd.Flags().IntVar(&flags.indent, "indent", config.DefaultIndent, "spaces per indentation level")
	cmd.Flags().BoolVar(&flags.tabs, "tabs", false, "indent with tabs instead of spaces")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "back up an existing output file before overwriting it")
	cmd.Flags().BoolVar(&flags.restore, "restore", false, "restore the output file from its backup")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a diff of the input against the trimmed output and write nothing")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "write the trimmed document to stdout")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "trim without writing the output file")
	cmd.MarkFlagsMutuallyExclusive("diff", "stdout", "restore")

	return cmd
}

func runTrim(cmd *cobra.Command, input string, flags *trimFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	cli := &config.Config{DryRun: flags.dryRun}
	if cmd.Flags().Changed("indent") {
		cli.Indent = config.Int(flags.indent)
	}
	if cmd.Flags().Changed("tabs") {
		cli.UseTabs = config.Bool(flags.tabs)
	}
	if cmd.Flags().Changed("backup") {
		cli.Backup = config.Bool(flags.backup)
	}

	cfg, err := loadConfig(cmd, cli)
	if err != nil {
		return err
	}

	out := flags.output
	if out == "" {
		out = session.OutputPath(input, cfg.OutputSuffix)
	}

	stdout := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), stdout))
	ops := newOperations(ctx, cfg)

	logger.Debug("trim",
		logging.FieldInput, input,
		logging.FieldOutput, out,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldBackup, cfg.BackupValue(),
	)

	if flags.restore {
		return restoreOutput(cmd, styles, out)
	}

	if !flags.diff && !flags.stdout && !cfg.DryRun {
		sess := session.New(ops,
			session.WithOutputSuffix(cfg.OutputSuffix),
			session.WithBackup(cfg.BackupValue()),
		)
		defer sess.Close()

		sess.SetXMLPath(input)
		status, err := sess.Trim(ctx, out)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, styles.FormatStatus(status))
		return failed(status.Kind)
	}

	result := ops.TrimXML(ctx, input, out, xmlops.TrimOptions{DryRun: true})
	if result.Document != nil {
		result.Document.Release()
	}
	if !result.OK {
		fmt.Fprintln(stdout, styles.FormatStatus(trimFailureStatus(result.Kind)))
		return failed(result.Kind)
	}

	switch {
	case flags.stdout:
		if _, err := stdout.Write(result.Output); err != nil {
			return withExitCode(ExitIOError, fmt.Errorf("write output: %w", err))
		}
	case flags.diff:
		original, _, err := fsutil.ReadFile(ctx, input)
		if err != nil {
			return withExitCode(ExitIOError, fmt.Errorf("read input: %w", err))
		}
		diff := textdiff.Compute(input, out, original, result.Output)
		if !diff.HasChanges() {
			fmt.Fprintln(stdout, styles.Success.Render("Already trimmed, no changes."))
			return nil
		}
		rep := reporter.NewDiffReporter(reporter.Options{
			Writer:      stdout,
			Color:       string(cfg.Color),
			ShowSummary: true,
		})
		if _, err := rep.Report(ctx, diff); err != nil {
			return withExitCode(ExitIOError, err)
		}
	default:
		fmt.Fprintln(stdout, styles.StatusOK.Render(
			fmt.Sprintf("Dry run: would write %s (%d bytes)", filepath.Base(out), len(result.Output))))
	}

	return nil
}

// restoreOutput puts the backup of out back in place.
func restoreOutput(cmd *cobra.Command, styles *pretty.Styles, out string) error {
	restored, err := fsutil.RestoreBackup(commandContext(cmd), out)
	if err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("restore %s: %w", out, err))
	}
	if !restored {
		return withExitCode(ExitIOError, fmt.Errorf("%w for %s", errNoBackup, out))
	}

	fmt.Fprintln(cmd.OutOrStdout(), styles.StatusOK.Render(
		fmt.Sprintf("Restored %s from %s", filepath.Base(out), filepath.Base(fsutil.BackupPath(out)))))
	return nil
}

// trimFailureStatus is the status a session trim would report for kind.
func trimFailureStatus(kind xmlops.ErrorKind) session.Status {
	label := session.LabelIOError
	if kind == xmlops.KindSyntax {
		label = session.LabelTrimSyntax
	}
	return session.Status{Label: label, Level: session.StatusError, Kind: kind}
}
