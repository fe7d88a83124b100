// Package reporter renders batch check and validation results.
package reporter

import (
	"context"
	"fmt"

	"github.com/emredjan/xml-validation/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of issues reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatSARIF:
		return NewSARIFReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// issueCount counts what a failed outcome contributes to the issue total:
// one per diagnostic, or one when the failure carries none.
func issueCount(outcome *runner.FileOutcome) int {
	if outcome == nil || outcome.OK() {
		return 0
	}
	return max(1, outcome.Diagnostics.Len())
}

// totalIssues sums issueCount over the schema and every file.
func totalIssues(result *runner.Result) int {
	if result == nil {
		return 0
	}
	total := issueCount(result.Schema)
	for i := range result.Files {
		total += issueCount(&result.Files[i])
	}
	return total
}
