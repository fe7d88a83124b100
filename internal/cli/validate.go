package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emredjan/xml-validation/internal/logging"
	"github.com/emredjan/xml-validation/internal/session"
	"github.com/emredjan/xml-validation/internal/ui/pretty"
	"github.com/emredjan/xml-validation/pkg/config"
	"github.com/emredjan/xml-validation/pkg/fsutil"
	"github.com/emredjan/xml-validation/pkg/runner"
)

// errNoSchema is returned when validate has no schema to use.
var errNoSchema = errors.New("no schema given; use --schema or set schema in the config file")

func newValidateCommand() *cobra.Command {
	cfg := &config.Config{}
	flags := &batchFlags{}
	var logPath string

	cmd := &cobra.Command{
		Use:   "validate <paths...> --schema <xsd>",
		Short: "Validate XML files against an XSD schema",
		Long: `Validate XML files against an XSD schema.

Each file is checked for well-formedness first and only then validated.
With a single file the result is printed as a status line followed by the
error details. With several files or a directory, files are validated in
parallel against the schema compiled once, and reported like check.

Examples:
  xmltools validate order.xml --schema order.xsd
  xmltools validate order.xml --schema order.xsd --log errors.log
  xmltools validate feeds/ --schema feed.xsd --format sarif`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := loadConfig(cmd, cfg)
			if err != nil {
				return err
			}
			if resolved.Schema == "" {
				return withExitCode(ExitInvalidUsage, errNoSchema)
			}

			if len(args) == 1 && !isDir(args[0]) {
				return runValidateFile(cmd, resolved, args[0], logPath)
			}

			result, err := runBatch(cmd, args, runner.ModeValidate, resolved, flags)
			if err != nil {
				return err
			}
			if logPath != "" && result.HasFailures() {
				if err := saveBatchLog(cmd, result, logPath); err != nil {
					return err
				}
			}
			return failed(result.WorstKind())
		},
	}

	cmd.Flags().StringVarP(&cfg.Schema, "schema", "s", "", "XSD schema file (default from config)")
	cmd.Flags().StringVar(&logPath, "log", "", "write the error details to this file on failure")
	addBatchFlags(cmd, cfg, flags)

	return cmd
}

// runValidateFile runs the check-then-validate session flow for one file.
func runValidateFile(cmd *cobra.Command, cfg *config.Config, path, logPath string) error {
	ctx := commandContext(cmd)
	stdout := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), stdout))

	sess := session.New(newOperations(ctx, cfg), session.WithLogFile(cfg.LogFile))
	defer sess.Close()

	sess.SetXMLPath(path)
	sess.SetSchemaPath(cfg.Schema)

	status, err := sess.Check(ctx)
	if err != nil {
		return err
	}
	if status.Level == session.StatusOK {
		status, err = sess.Validate(ctx)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(stdout, styles.FormatStatus(status))
	if details := sess.LastError(); details != "" {
		fmt.Fprintln(stdout)
		writeDetails(stdout, details)
	}

	if logPath != "" && sess.LastError() != "" {
		saved, err := sess.SaveLog(ctx, logPath)
		if err != nil {
			return withExitCode(ExitIOError, fmt.Errorf("save error details: %w", err))
		}
		logging.FromContext(ctx).Info(saved.Label)
	}

	return failed(status.Kind)
}

// saveBatchLog writes the error text of every failed file to path.
func saveBatchLog(cmd *cobra.Command, result *runner.Result, path string) error {
	var parts []string
	if result.SchemaFailed() {
		parts = append(parts, result.Schema.Text)
	}
	for _, file := range result.Files {
		if !file.OK() && file.Text != "" {
			parts = append(parts, file.Text)
		}
	}

	content := strings.Join(parts, "\n\n")
	if err := fsutil.WriteAtomic(commandContext(cmd), path, []byte(content), fsutil.DefaultFileMode); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("save error details: %w", err))
	}
	return nil
}

// writeDetails prints error text wrapped to the terminal width.
func writeDetails(w io.Writer, details string) {
	width := terminalWidth(w)
	for _, line := range strings.Split(details, "\n") {
		fmt.Fprintln(w, wrapLine(line, width))
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
