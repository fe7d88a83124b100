// Package diag collects positioned diagnostics produced while parsing or
// validating a document. A Collector is created per operation call so that
// concurrent operations never share diagnostic state.
package diag

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Diagnostic is a single located message reported by a parser or validator.
type Diagnostic struct {
	// Source is the file the diagnostic refers to.
	Source string `json:"source"`

	// Line and Column are 1-based. Zero means unknown.
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`

	// Code is an optional machine-readable identifier, e.g. an XSD
	// constraint code such as "cvc-complex-type.4".
	Code string `json:"code,omitempty"`

	// Message is the human-readable reason.
	Message string `json:"message"`

	// Path is an optional instance path inside the document.
	Path string `json:"path,omitempty"`
}

// String renders the diagnostic as "source:line:col: [code] message (at path)".
func (d Diagnostic) String() string {
	var builder strings.Builder

	builder.WriteString(d.Source)
	if d.Line > 0 {
		builder.WriteByte(':')
		builder.WriteString(strconv.Itoa(d.Line))
		if d.Column > 0 {
			builder.WriteByte(':')
			builder.WriteString(strconv.Itoa(d.Column))
		}
	}
	if builder.Len() > 0 {
		builder.WriteString(": ")
	}

	if d.Code != "" {
		fmt.Fprintf(&builder, "[%s] ", d.Code)
	}
	builder.WriteString(d.Message)

	if d.Path != "" {
		fmt.Fprintf(&builder, " (at %s)", d.Path)
	}

	return builder.String()
}

// Log is an ordered list of diagnostics.
type Log []Diagnostic

// Len returns the number of entries.
func (l Log) Len() int { return len(l) }

// Empty reports whether the log has no entries.
func (l Log) Empty() bool { return len(l) == 0 }

// String renders one diagnostic per line.
func (l Log) String() string {
	if len(l) == 0 {
		return ""
	}

	lines := make([]string, 0, len(l))
	for _, d := range l {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}

// Truncate returns at most n entries. A non-positive n returns the log as is.
func (l Log) Truncate(n int) Log {
	if n <= 0 || len(l) <= n {
		return l
	}
	return l[:n]
}

// Collector accumulates diagnostics for a single operation.
// It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	source  string
	max     int
	entries Log
	dropped int
}

// NewCollector creates a collector for diagnostics about source.
// maxEntries caps the number of stored diagnostics; zero means unlimited.
func NewCollector(source string, maxEntries int) *Collector {
	return &Collector{source: source, max: maxEntries}
}

// Source returns the default source used for entries that do not set one.
func (c *Collector) Source() string {
	return c.source
}

// Add appends a diagnostic. An empty Source is filled with the collector's source.
func (c *Collector) Add(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d.Source == "" {
		d.Source = c.source
	}
	if c.max > 0 && len(c.entries) >= c.max {
		c.dropped++
		return
	}
	c.entries = append(c.entries, d)
}

// Addf appends a message-only diagnostic at the given position.
func (c *Collector) Addf(line, col int, format string, args ...any) {
	c.Add(Diagnostic{Line: line, Column: col, Message: fmt.Sprintf(format, args...)})
}

// Len returns the number of diagnostics seen, including dropped ones.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries) + c.dropped
}

// Dropped returns how many diagnostics exceeded the cap.
func (c *Collector) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Log returns a copy of the collected entries.
func (c *Collector) Log() Log {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(Log, len(c.entries))
	copy(out, c.entries)
	return out
}

// String renders the collected log, noting dropped entries.
func (c *Collector) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := c.entries.String()
	if c.dropped > 0 {
		text += fmt.Sprintf("\n... %d more", c.dropped)
	}
	return text
}
