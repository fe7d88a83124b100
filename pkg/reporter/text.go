package reporter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/emredjan/xml-validation/internal/ui/pretty"
	"github.com/emredjan/xml-validation/pkg/fsutil"
	"github.com/emredjan/xml-validation/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	if result.SchemaFailed() {
		fmt.Fprintln(r.bw, r.styles.Failure.Render("Schema could not be loaded"))
		r.writeOutcome(ctx, *result.Schema)
		return totalIssues(result), nil
	}

	if len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		if file.OK() && r.opts.Quiet {
			continue
		}
		r.writeOutcome(ctx, file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return totalIssues(result), nil
}

// writeOutcome writes a status line for one file and, on failure, its
// diagnostics.
func (r *TextReporter) writeOutcome(ctx context.Context, outcome runner.FileOutcome) {
	display := r.opts.displayPath(outcome.Path)
	fmt.Fprintln(r.bw, r.styles.FormatFileStatus(display, outcome.Kind, outcome.Text))

	if outcome.OK() || outcome.Diagnostics.Empty() {
		return
	}

	var lines []string
	if r.opts.ShowContext {
		lines = sourceLines(ctx, outcome.Path)
	}

	for _, d := range outcome.Diagnostics {
		if d.Source == outcome.Path || d.Source == "" {
			d.Source = display
		} else {
			d.Source = r.opts.displayPath(d.Source)
		}

		var sourceLine string
		if d.Line > 0 && d.Line <= len(lines) {
			sourceLine = lines[d.Line-1]
		}
		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(d, outcome.Kind, r.opts.ShowContext, sourceLine))
	}
}

// sourceLines returns the lines of a UTF-8 file, or nil when it cannot be
// read or is in another encoding.
func sourceLines(ctx context.Context, path string) []string {
	data, _, err := fsutil.ReadFile(ctx, path)
	if err != nil || !utf8.Valid(data) {
		return nil
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(text, "\n")
}

// SummaryReporter writes only the aggregate summary block.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var text string
	if result.SchemaFailed() {
		text = r.styles.Failure.Render("Schema could not be loaded: "+r.opts.displayPath(result.Schema.Path)) + "\n"
	} else {
		text = r.styles.FormatSummary(result.Stats, result.Mode)
	}

	if _, err := fmt.Fprint(r.opts.Writer, text); err != nil {
		return 0, fmt.Errorf("write summary: %w", err)
	}
	return totalIssues(result), nil
}
