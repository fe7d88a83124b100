package xmlops

import "github.com/emredjan/xml-validation/pkg/diag"

// Fixed messages for I/O failures. Underlying OS errors are not surfaced.
const (
	MsgInvalidFile   = "Invalid File"
	MsgSchemaIOError = "XSD file I/O error"
	MsgNoDocument    = "no document to validate"
)

// ParseResult is the outcome of CheckSyntax.
// Document is non-nil iff OK is true.
type ParseResult struct {
	OK          bool
	Kind        ErrorKind
	Text        string
	Diagnostics diag.Log
	Document    *Document
}

// TrimResult is the outcome of TrimXML.
// Error text is deliberately not surfaced; run CheckSyntax for details.
type TrimResult struct {
	OK       bool
	Kind     ErrorKind
	Document *Document

	// Output holds the serialized bytes that were (or, on a dry run,
	// would have been) written.
	Output []byte

	// Written is false on a dry run or on failure.
	Written bool
}

// ValidateResult is the outcome of ValidateXML.
type ValidateResult struct {
	OK          bool
	Kind        ErrorKind
	Text        string
	Diagnostics diag.Log
}

func parseFailure(kind ErrorKind, text string, log diag.Log) ParseResult {
	return ParseResult{Kind: kind, Text: text, Diagnostics: log}
}

func validateFailure(kind ErrorKind, text string, log diag.Log) ValidateResult {
	return ValidateResult{Kind: kind, Text: text, Diagnostics: log}
}
