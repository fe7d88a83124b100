package xmlops

import (
	"fmt"
	"strings"
)

// ErrorKind classifies the outcome of an operation.
type ErrorKind int

const (
	// KindNone means the operation succeeded.
	KindNone ErrorKind = iota

	// KindIO means a path was missing, unreadable or unwritable.
	KindIO

	// KindSyntax means the XML (or XSD) was not well-formed.
	KindSyntax

	// KindSchema means a well-formed document violated the schema.
	KindSchema
)

// String returns the lowercase name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindIO:
		return "io"
	case KindSyntax:
		return "syntax"
	case KindSchema:
		return "schema"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseErrorKind converts a name produced by String back into a kind.
func ParseErrorKind(s string) (ErrorKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return KindNone, nil
	case "io":
		return KindIO, nil
	case "syntax":
		return KindSyntax, nil
	case "schema":
		return KindSchema, nil
	default:
		return KindNone, fmt.Errorf("unknown error kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ErrorKind) UnmarshalText(text []byte) error {
	parsed, err := ParseErrorKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
