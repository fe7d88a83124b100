package reporter

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/emredjan/xml-validation/internal/ui/pretty"
	"github.com/emredjan/xml-validation/pkg/textdiff"
)

// DiffReporter writes trim previews as unified diffs in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report writes each diff that has changes and returns how many it wrote.
func (r *DiffReporter) Report(_ context.Context, diffs ...*textdiff.Diff) (int, error) {
	var files, insertions, deletions int

	for _, diff := range diffs {
		if !diff.HasChanges() {
			continue
		}

		files++
		insertions += diff.Insertions
		deletions += diff.Deletions
		if err := r.writeDiff(diff); err != nil {
			return files, err
		}
	}

	if files > 0 && r.opts.ShowSummary {
		if _, err := fmt.Fprintln(r.out, r.summary(files, insertions, deletions)); err != nil {
			return files, fmt.Errorf("write diff summary: %w", err)
		}
	}

	return files, nil
}

func (r *DiffReporter) writeDiff(diff *textdiff.Diff) error {
	oldName := filepath.ToSlash(r.opts.displayPath(diff.OldName))
	newName := filepath.ToSlash(r.opts.displayPath(diff.NewName))

	var builder strings.Builder
	builder.WriteString(r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", oldName, newName)) + "\n")
	builder.WriteString(r.styles.DiffRemove.Render("--- a/"+oldName) + "\n")
	builder.WriteString(r.styles.DiffAdd.Render("+++ b/"+newName) + "\n")

	for _, hunk := range diff.Hunks {
		builder.WriteString(r.styles.DiffHunk.Render(hunk.Header()) + "\n")
		for _, line := range hunk.Lines {
			builder.WriteString(r.styleLine(line) + "\n")
		}
	}
	builder.WriteString("\n")

	if _, err := io.WriteString(r.out, builder.String()); err != nil {
		return fmt.Errorf("write diff: %w", err)
	}
	return nil
}

func (r *DiffReporter) styleLine(line textdiff.Line) string {
	text := line.Kind.Prefix() + line.Text
	switch line.Kind {
	case textdiff.Insert:
		return r.styles.DiffAdd.Render(text)
	case textdiff.Delete:
		return r.styles.DiffRemove.Render(text)
	default:
		return r.styles.DiffContext.Render(text)
	}
}

func (r *DiffReporter) summary(files, insertions, deletions int) string {
	fileWord := "files"
	if files == 1 {
		fileWord = "file"
	}
	parts := []string{fmt.Sprintf("%d %s changed", files, fileWord)}

	if insertions > 0 {
		word := "insertions"
		if insertions == 1 {
			word = "insertion"
		}
		parts = append(parts, r.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", insertions, word)))
	}
	if deletions > 0 {
		word := "deletions"
		if deletions == 1 {
			word = "deletion"
		}
		parts = append(parts, r.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", deletions, word)))
	}

	return strings.Join(parts, ", ")
}
