package xmlops

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/emredjan/xml-validation/internal/logging"
)

// DefaultIndent is the number of spaces per level used when trimming.
const DefaultIndent = 2

// Operations runs check, trim and validate with a fixed set of options.
// The zero value is not usable; construct with New.
type Operations struct {
	indent    int
	useTabs   bool
	maxErrors int
	logger    *log.Logger
}

// Option configures Operations.
type Option func(*Operations)

// WithIndent sets the number of spaces per indentation level for TrimXML.
// Negative values are ignored.
func WithIndent(spaces int) Option {
	return func(o *Operations) {
		if spaces >= 0 {
			o.indent = spaces
		}
	}
}

// WithTabs makes TrimXML indent with one tab per level.
func WithTabs(useTabs bool) Option {
	return func(o *Operations) {
		o.useTabs = useTabs
	}
}

// WithMaxErrors caps the diagnostics collected per call. Zero means unlimited.
func WithMaxErrors(n int) Option {
	return func(o *Operations) {
		if n >= 0 {
			o.maxErrors = n
		}
	}
}

// WithLogger sets the logger used for debug output. When unset the logger
// is taken from the call's context.
func WithLogger(logger *log.Logger) Option {
	return func(o *Operations) {
		o.logger = logger
	}
}

// New creates Operations with the given options.
func New(opts ...Option) *Operations {
	ops := &Operations{indent: DefaultIndent}
	for _, opt := range opts {
		opt(ops)
	}
	return ops
}

// Indent returns the configured spaces per indentation level.
func (o *Operations) Indent() int { return o.indent }

// UseTabs reports whether tabs are used for indentation.
func (o *Operations) UseTabs() bool { return o.useTabs }

// MaxErrors returns the per-call diagnostic cap.
func (o *Operations) MaxErrors() int { return o.maxErrors }

func (o *Operations) log(ctx context.Context) *log.Logger {
	if o.logger != nil {
		return o.logger
	}
	return logging.FromContext(ctx)
}

// CheckSyntax runs Operations.CheckSyntax with default options.
func CheckSyntax(ctx context.Context, path string) ParseResult {
	return New().CheckSyntax(ctx, path)
}

// TrimXML runs Operations.TrimXML with default options.
func TrimXML(ctx context.Context, pathIn, pathOut string) TrimResult {
	return New().TrimXML(ctx, pathIn, pathOut, TrimOptions{})
}

// ValidateXML runs Operations.ValidateXML with default options.
func ValidateXML(ctx context.Context, doc *Document, schemaPath string) ValidateResult {
	return New().ValidateXML(ctx, doc, schemaPath)
}
