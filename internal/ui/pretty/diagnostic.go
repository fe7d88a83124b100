package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emredjan/xml-validation/internal/session"
	"github.com/emredjan/xml-validation/pkg/diag"
	"github.com/emredjan/xml-validation/pkg/xmlops"
)

// FormatDiagnostic formats a single diagnostic for terminal output.
//
//	path:line:col  kind  message  (code)
func (s *Styles) FormatDiagnostic(d diag.Diagnostic, kind xmlops.ErrorKind, showContext bool, sourceLine string) string {
	var builder strings.Builder

	location := s.FilePath.Render(d.Source)
	if d.Line > 0 {
		location += s.Location.Render(":" + strconv.Itoa(d.Line))
		if d.Column > 0 {
			location += s.Location.Render(":" + strconv.Itoa(d.Column))
		}
	}

	message := d.Message
	if d.Path != "" {
		message += " (at " + d.Path + ")"
	}

	builder.WriteString(fmt.Sprintf("  %s  %s  %s", location, s.FormatKind(kind), s.Message.Render(message)))
	if d.Code != "" {
		builder.WriteString("  " + s.Code.Render("("+d.Code+")"))
	}
	builder.WriteString("\n")

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, d.Column))
	}

	return builder.String()
}

// FormatKind returns a styled error kind label.
func (s *Styles) FormatKind(kind xmlops.ErrorKind) string {
	switch kind {
	case xmlops.KindSyntax:
		return s.Error.Render("syntax")
	case xmlops.KindSchema:
		return s.Schema.Render("schema")
	case xmlops.KindIO:
		return s.IO.Render("io")
	default:
		return kind.String()
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	// Tabs would shift the caret; render them as single spaces.
	line = strings.ReplaceAll(line, "\t", " ")

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

// FormatFileStatus formats a one-line pass or fail marker for a file.
func (s *Styles) FormatFileStatus(path string, kind xmlops.ErrorKind, text string) string {
	if kind == xmlops.KindNone {
		return s.Success.Render("ok") + "  " + s.FilePath.Render(path)
	}

	line := s.Failure.Render("FAIL") + "  " + s.FilePath.Render(path) + "  " + s.FormatKind(kind)
	if kind == xmlops.KindIO && text != "" {
		line += "  " + s.Message.Render(text)
	}
	return line
}

// FormatStatus renders a status label in its level's color.
func (s *Styles) FormatStatus(status session.Status) string {
	switch status.Level {
	case session.StatusOK:
		return s.StatusOK.Render(status.Label)
	case session.StatusError:
		return s.StatusError.Render(status.Label)
	default:
		return s.StatusIdle.Render(status.Label)
	}
}
