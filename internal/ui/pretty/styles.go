// Package pretty renders xmltools status lines, diagnostics and summaries
// with Lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette entries. The status pair is true color, everything else uses the
// 16-color ANSI set so that it follows the terminal theme.
const (
	colorStatusOK    = "#00AF00"
	colorStatusError = "#AF0000"

	ansiGray    = "8"
	ansiSilver  = "7"
	ansiRed     = "9"
	ansiGreen   = "10"
	ansiYellow  = "11"
	ansiMagenta = "13"
	ansiCyan    = "14"
)

// Styles holds one renderer per kind of output element.
type Styles struct {
	// Failure kinds: syntax, schema and I/O.
	Error  lipgloss.Style
	Schema lipgloss.Style
	IO     lipgloss.Style

	// Status labels of the single-file commands and the shell.
	StatusOK    lipgloss.Style
	StatusError lipgloss.Style
	StatusIdle  lipgloss.Style

	// Diagnostic lines.
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Code       lipgloss.Style
	Message    lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Unified diff of trim --diff.
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// Batch summaries.
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	if colorEnabled {
		return colorStyles()
	}

	plain := lipgloss.NewStyle()
	return &Styles{
		Error:        plain,
		Schema:       plain,
		IO:           plain,
		StatusOK:     plain,
		StatusError:  plain,
		StatusIdle:   plain,
		FilePath:     plain,
		Location:     plain,
		Code:         plain,
		Message:      plain,
		SourceLine:   plain,
		Caret:        plain,
		DiffHeader:   plain,
		DiffHunk:     plain,
		DiffAdd:      plain,
		DiffRemove:   plain,
		DiffContext:  plain,
		SummaryTitle: plain,
		SummaryValue: plain,
		Success:      plain,
		Failure:      plain,
		Dim:          plain,
		Bold:         plain,
	}
}

func colorStyles() *Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	bold := lipgloss.NewStyle().Bold(true)

	return &Styles{
		Error:  fg(ansiRed).Bold(true),
		Schema: fg(ansiYellow).Bold(true),
		IO:     fg(ansiMagenta).Bold(true),

		StatusOK:    fg(colorStatusOK).Bold(true),
		StatusError: fg(colorStatusError).Bold(true),
		StatusIdle:  fg(ansiGray),

		FilePath:   bold,
		Location:   fg(ansiGray),
		Code:       fg(ansiGray),
		Message:    lipgloss.NewStyle(),
		SourceLine: fg(ansiSilver),
		Caret:      fg(ansiRed),

		DiffHeader:  bold,
		DiffHunk:    fg(ansiCyan),
		DiffAdd:     fg(ansiGreen),
		DiffRemove:  fg(ansiRed),
		DiffContext: fg(ansiGray),

		SummaryTitle: bold,
		SummaryValue: lipgloss.NewStyle(),
		Success:      fg(ansiGreen).Bold(true),
		Failure:      fg(ansiRed).Bold(true),

		Dim:  fg(ansiGray),
		Bold: bold,
	}
}

// IsColorEnabled resolves a --color mode for writer. "always" and "never"
// are absolute; anything else means auto, which requires a terminal and an
// unset NO_COLOR (https://no-color.org/).
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
