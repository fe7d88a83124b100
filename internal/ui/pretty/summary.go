package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emredjan/xml-validation/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, singular, many string) string {
	if n == 1 {
		return singular
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 of 12 files failed (2 syntax, 1 schema), 5 issues".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesFailed == 0 {
		return s.Success.Render("All files passed") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesOK, plural(stats.FilesOK, wordFile, wordFiles))) + "\n"
	}

	var kinds []string
	if stats.IOErrors > 0 {
		kinds = append(kinds, s.IO.Render(fmt.Sprintf("%d io", stats.IOErrors)))
	}
	if stats.SyntaxErrors > 0 {
		kinds = append(kinds, s.Error.Render(fmt.Sprintf("%d syntax", stats.SyntaxErrors)))
	}
	if stats.SchemaErrors > 0 {
		kinds = append(kinds, s.Schema.Render(fmt.Sprintf("%d schema", stats.SchemaErrors)))
	}

	total := stats.FilesOK + stats.FilesFailed
	line := fmt.Sprintf("%s of %d %s failed (%s)",
		s.Failure.Render(strconv.Itoa(stats.FilesFailed)),
		total,
		plural(total, wordFile, wordFiles),
		strings.Join(kinds, ", "),
	)
	if stats.Diagnostics > 0 {
		line += fmt.Sprintf(", %d %s", stats.Diagnostics, plural(stats.Diagnostics, "issue", "issues"))
	}
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats, mode runner.Mode) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesOK+stats.FilesFailed)) + "\n")
	builder.WriteString("  Files passed:      " +
		s.Success.Render(strconv.Itoa(stats.FilesOK)) + "\n")

	if stats.FilesFailed > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesFailed)) + "\n")
	}
	if stats.IOErrors > 0 {
		builder.WriteString("    Unreadable:      " +
			s.IO.Render(strconv.Itoa(stats.IOErrors)) + "\n")
	}
	if stats.SyntaxErrors > 0 {
		builder.WriteString("    Not well-formed: " +
			s.Error.Render(strconv.Itoa(stats.SyntaxErrors)) + "\n")
	}
	if stats.SchemaErrors > 0 {
		builder.WriteString("    Schema invalid:  " +
			s.Schema.Render(strconv.Itoa(stats.SchemaErrors)) + "\n")
	}

	builder.WriteString("  Total issues:      " +
		s.SummaryValue.Render(strconv.Itoa(stats.Diagnostics)) + "\n")

	builder.WriteString("\n")

	verb := "Check"
	if mode == runner.ModeValidate {
		verb = "Validation"
	}
	if stats.FilesFailed > 0 {
		builder.WriteString(s.Failure.Render(verb + " failed"))
	} else {
		builder.WriteString(s.Success.Render(verb + " passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
