package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emredjan/xml-validation/internal/logging"
	"github.com/emredjan/xml-validation/pkg/config"
	"github.com/emredjan/xml-validation/pkg/reporter"
	"github.com/emredjan/xml-validation/pkg/runner"
)

// batchFlags holds the flags shared by the multi-file commands.
type batchFlags struct {
	format         string
	include        []string
	detect         bool
	followSymlinks bool
	noContext      bool
	compact        bool
	summary        bool
}

func newCheckCommand() *cobra.Command {
	cfg := &config.Config{}
	flags := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check XML files for well-formedness",
		Long: `Check XML files for well-formedness.

By default, checks all .xml files in the current directory and its
subdirectories. Directories are searched for the configured extensions and
for files whose name identifies them as XML; pass --detect to also sniff
the content of other files. Files named explicitly are always checked.

Examples:
  xmltools check                      # Check the current directory
  xmltools check feeds/ catalog.xml   # Check a directory and a file
  xmltools check --format json        # Output as JSON for CI
  xmltools check --quiet              # Only list failing files`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := loadConfig(cmd, cfg)
			if err != nil {
				return err
			}
			result, err := runBatch(cmd, args, runner.ModeCheck, resolved, flags)
			if err != nil {
				return err
			}
			return failed(result.WorstKind())
		},
	}

	addBatchFlags(cmd, cfg, flags)

	return cmd
}

func addBatchFlags(cmd *cobra.Command, cfg *config.Config, flags *batchFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, sarif, summary (default from config, else text)")
	cmd.Flags().BoolVarP(&cfg.Quiet, "quiet", "q", false, "only report files that fail")
	cmd.Flags().BoolVar(&flags.summary, "summary", true, "print a summary line after the results")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().IntVar(&cfg.MaxErrors, "max-errors", 0, "maximum diagnostics collected per file (0 = unlimited)")
	cmd.Flags().StringSliceVar(&cfg.Exclude, "exclude", nil, "glob patterns to skip")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only process files matching these glob patterns")
	cmd.Flags().StringSliceVar(&cfg.Extensions, "ext", nil, "file extensions to pick up in directories (default .xml)")
	cmd.Flags().BoolVar(&flags.detect, "detect", false, "sniff file content to find XML files with other extensions")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow directory symlinks")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON and SARIF output")
}

// runBatch checks or validates every discovered file under the resolved
// configuration and reports the result.
// The error is non-nil only when the run itself could not complete.
func runBatch(
	cmd *cobra.Command,
	args []string,
	mode runner.Mode,
	cfg *config.Config,
	flags *batchFlags,
) (*runner.Result, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	formatName := string(cfg.Format)
	if cmd.Flags().Changed("format") {
		formatName = flags.format
	}
	format, err := reporter.ParseFormat(formatName)
	if err != nil {
		return nil, withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format: %w", err))
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	opts := runner.OptionsFromConfig(cfg, args)
	opts.WorkingDir = workDir
	opts.Mode = mode
	opts.IncludeGlobs = flags.include
	opts.DetectContent = flags.detect
	opts.FollowSymlinks = flags.followSymlinks

	logger.Debug("starting run",
		logging.FieldMode, mode,
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, workDir,
		logging.FieldJobs, opts.Jobs,
	)

	result, err := runner.New(newOperations(ctx, cfg)).Run(ctx, opts)
	if err != nil {
		return nil, withExitCode(ExitInternalError, fmt.Errorf("%s run failed: %w", mode, err))
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       string(cfg.Color),
		ShowContext: !flags.noContext,
		ShowSummary: flags.summary,
		Quiet:       cfg.Quiet,
		Compact:     flags.compact,
		WorkingDir:  workDir,
		ToolVersion: cmd.Root().Version,
	})
	if err != nil {
		return nil, fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return nil, withExitCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	return result, nil
}
