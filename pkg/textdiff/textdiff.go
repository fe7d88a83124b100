// Package textdiff computes line-based unified diffs. It backs the
// trim --diff preview.
package textdiff

import (
	"fmt"
	"strings"
)

// ContextLines is the number of unchanged lines shown around each change.
const ContextLines = 3

// maxTableCells bounds the LCS table. Larger inputs are diffed as one
// replacement of the differing middle section.
const maxTableCells = 4 << 20

// Kind classifies a diff line.
type Kind int

const (
	// Context is an unchanged line.
	Context Kind = iota

	// Insert is a line present only in the new text.
	Insert

	// Delete is a line present only in the old text.
	Delete
)

// Prefix returns the unified diff marker for the kind.
func (k Kind) Prefix() string {
	switch k {
	case Insert:
		return "+"
	case Delete:
		return "-"
	default:
		return " "
	}
}

// Line is one line of a hunk, without its marker or newline.
type Line struct {
	Kind Kind
	Text string
}

// Hunk is a contiguous group of changes with surrounding context.
// Start fields are 1-based.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Header returns the "@@ -a,b +c,d @@" range line.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// Diff is a unified diff between two texts.
type Diff struct {
	OldName    string
	NewName    string
	Hunks      []Hunk
	Insertions int
	Deletions  int
}

// Compute diffs old against new. It returns nil when the texts have the
// same lines.
func Compute(oldName, newName string, oldText, newText []byte) *Diff {
	a := splitLines(oldText)
	b := splitLines(newText)

	ops := diffLines(a, b)
	hunks := group(ops)
	if len(hunks) == 0 {
		return nil
	}

	d := &Diff{OldName: oldName, NewName: newName, Hunks: hunks}
	for _, op := range ops {
		switch op.kind {
		case Insert:
			d.Insertions++
		case Delete:
			d.Deletions++
		}
	}
	return d
}

// HasChanges reports whether the diff contains any hunks.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders the diff in unified format with ---/+++ headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", d.OldName, d.NewName)
	for _, h := range d.Hunks {
		sb.WriteString(h.Header())
		sb.WriteByte('\n')
		for _, l := range h.Lines {
			sb.WriteString(l.Kind.Prefix())
			sb.WriteString(l.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// splitLines splits text on newlines, dropping the empty element after a
// trailing newline. CRLF line endings are kept as part of the line.
func splitLines(text []byte) []string {
	if len(text) == 0 {
		return nil
	}
	lines := strings.Split(string(text), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

type op struct {
	kind Kind
	text string
}

// diffLines returns the edit script turning a into b. Common leading and
// trailing lines are matched directly; the middle uses an LCS table.
func diffLines(a, b []string) []op {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	ops := make([]op, 0, len(a)+len(b))
	for _, line := range a[:prefix] {
		ops = append(ops, op{Context, line})
	}
	ops = append(ops, diffMiddle(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix])...)
	for _, line := range a[len(a)-suffix:] {
		ops = append(ops, op{Context, line})
	}
	return ops
}

func diffMiddle(a, b []string) []op {
	if len(a) == 0 || len(b) == 0 || len(a)*len(b) > maxTableCells {
		ops := make([]op, 0, len(a)+len(b))
		for _, line := range a {
			ops = append(ops, op{Delete, line})
		}
		for _, line := range b {
			ops = append(ops, op{Insert, line})
		}
		return ops
	}

	// table[i][j] is the LCS length of a[i:] and b[j:].
	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	ops := make([]op, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			ops = append(ops, op{Context, a[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			ops = append(ops, op{Delete, a[i]})
			i++
		default:
			ops = append(ops, op{Insert, b[j]})
			j++
		}
	}
	for ; i < len(a); i++ {
		ops = append(ops, op{Delete, a[i]})
	}
	for ; j < len(b); j++ {
		ops = append(ops, op{Insert, b[j]})
	}
	return ops
}

// group splits the edit script into hunks. Changes separated by at most
// 2*ContextLines unchanged lines share a hunk.
func group(ops []op) []Hunk {
	var hunks []Hunk

	idx := 0
	for idx < len(ops) {
		for idx < len(ops) && ops[idx].kind == Context {
			idx++
		}
		if idx == len(ops) {
			break
		}

		start := max(idx-ContextLines, 0)
		end := idx
		for end < len(ops) {
			if ops[end].kind != Context {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].kind == Context {
				run++
			}
			if run == len(ops) || run-end > 2*ContextLines {
				break
			}
			end = run
		}
		stop := min(end+ContextLines, len(ops))

		hunks = append(hunks, buildHunk(ops, start, stop))
		idx = stop
	}
	return hunks
}

func buildHunk(ops []op, start, stop int) Hunk {
	h := Hunk{OldStart: 1, NewStart: 1}
	for _, o := range ops[:start] {
		if o.kind != Insert {
			h.OldStart++
		}
		if o.kind != Delete {
			h.NewStart++
		}
	}

	for _, o := range ops[start:stop] {
		h.Lines = append(h.Lines, Line{Kind: o.kind, Text: o.text})
		if o.kind != Insert {
			h.OldCount++
		}
		if o.kind != Delete {
			h.NewCount++
		}
	}

	// Unified format reports the line before an empty range.
	if h.OldCount == 0 {
		h.OldStart--
	}
	if h.NewCount == 0 {
		h.NewStart--
	}
	return h
}
