// Package xmlops implements the three XML operations offered by xmltools:
// well-formedness checking, whitespace trimming with re-indentation, and
// XSD validation.
//
// Operations never return Go errors for problems with the input. Each call
// returns a result value carrying an ErrorKind, the rendered diagnostic
// text, and the collected diagnostics. Diagnostics are gathered per call,
// so operations may run concurrently.
//
// A successful CheckSyntax or TrimXML hands the caller an owned *Document.
// ValidateXML borrows a document and validates the exact bytes it was
// parsed from; it never reads the subject from disk again.
package xmlops
