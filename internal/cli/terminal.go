package cli

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// terminalWidth returns the width of w when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// wrapLine breaks line at spaces so that no row exceeds width runes.
// Words longer than width are kept whole. A width of 0 disables wrapping.
func wrapLine(line string, width int) string {
	if width <= 0 || utf8.RuneCountInString(line) <= width {
		return line
	}

	var builder strings.Builder
	rowLen := 0
	for i, word := range strings.Fields(line) {
		wordLen := utf8.RuneCountInString(word)
		switch {
		case i == 0:
		case rowLen+1+wordLen > width:
			builder.WriteByte('\n')
			rowLen = 0
		default:
			builder.WriteByte(' ')
			rowLen++
		}
		builder.WriteString(word)
		rowLen += wordLen
	}
	return builder.String()
}
