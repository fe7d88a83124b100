// Package session holds the state of one interactive xmltools workflow:
// the chosen XML and schema files, the checked document and the last error
// text shown to the user.
//
// A Session is not safe for concurrent use.
package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/emredjan/xml-validation/internal/logging"
	"github.com/emredjan/xml-validation/pkg/config"
	"github.com/emredjan/xml-validation/pkg/fsutil"
	"github.com/emredjan/xml-validation/pkg/xmlops"
)

// Status labels shown after each action.
const (
	LabelSelectXML      = "Select an XML file above."
	LabelSelectBoth     = "Select an XML and an XSD file above."
	LabelWellFormed     = "XML well formed, syntax ok."
	LabelXMLSyntax      = "XML syntax error, check below for details!"
	LabelTrimSyntax     = "XML syntax error, check syntax first for details!"
	LabelIOError        = "File I/O error, check path!"
	LabelNotChecked     = "Check / correct syntax before validating!"
	LabelValid          = "XML valid, schema validation ok."
	LabelXSDSyntax      = "XSD syntax error, check below for details!"
	LabelSchemaInvalid  = "Schema validation error, check below for details!"
	LabelNothingToSave  = "There's nothing to save!"
	labelTrimmedPrefix  = "Trimmed file written as: "
	labelLogSavedPrefix = "Error details written as: "
)

// Precondition failures. The matching label is set on the session.
var (
	ErrNoXMLSelected    = errors.New("no XML file selected")
	ErrNoSchemaSelected = errors.New("XML and XSD files must both be selected")
	ErrNotChecked       = errors.New("document has not been checked")
	ErrNothingToSave    = errors.New("no error details to save")
)

// Level classifies a status for display.
type Level int

const (
	StatusIdle Level = iota
	StatusOK
	StatusError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Status is the outcome of the last action.
type Status struct {
	Label string
	Level Level

	// Kind is the failure kind of the facade call, if one was made.
	Kind xmlops.ErrorKind
}

// Option configures a Session.
type Option func(*Session)

// WithOutputSuffix sets the suffix used to name default trim output.
func WithOutputSuffix(suffix string) Option {
	return func(s *Session) {
		if suffix != "" {
			s.outputSuffix = suffix
		}
	}
}

// WithLogFile sets the file name SaveLog uses when no path is given.
func WithLogFile(name string) Option {
	return func(s *Session) {
		if name != "" {
			s.logFile = name
		}
	}
}

// WithBackup makes Trim keep a backup of an existing destination.
func WithBackup(backup bool) Option {
	return func(s *Session) {
		s.backup = backup
	}
}

// Session tracks the files, document and messages of one workflow.
type Session struct {
	ops          *xmlops.Operations
	outputSuffix string
	logFile      string
	backup       bool

	xmlPath    string
	schemaPath string
	doc        *xmlops.Document
	lastError  string
	status     Status
}

// New creates a Session that runs its actions through ops.
// A nil ops uses default Operations.
func New(ops *xmlops.Operations, opts ...Option) *Session {
	if ops == nil {
		ops = xmlops.New()
	}
	s := &Session{
		ops:          ops,
		outputSuffix: config.DefaultOutputSuffix,
		logFile:      config.DefaultLogFile,
		status:       Status{Label: LabelSelectXML, Level: StatusIdle},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// XMLPath returns the selected XML file.
func (s *Session) XMLPath() string { return s.xmlPath }

// SchemaPath returns the selected XSD file.
func (s *Session) SchemaPath() string { return s.schemaPath }

// Document returns the checked document, or nil.
func (s *Session) Document() *xmlops.Document { return s.doc }

// LastError returns the error text last shown to the user.
func (s *Session) LastError() string { return s.lastError }

// Status returns the outcome of the last action.
func (s *Session) Status() Status { return s.status }

// SetXMLPath selects a new XML file. Any checked document is released.
func (s *Session) SetXMLPath(path string) {
	if path != s.xmlPath {
		s.releaseDocument()
	}
	s.xmlPath = path
}

// SetSchemaPath selects a new XSD file.
func (s *Session) SetSchemaPath(path string) {
	s.schemaPath = path
}

// Check runs a syntax check on the selected XML file and keeps the
// document on success.
func (s *Session) Check(ctx context.Context) (Status, error) {
	if s.xmlPath == "" {
		return s.set(LabelSelectXML, StatusError, xmlops.KindNone), ErrNoXMLSelected
	}

	result := s.ops.CheckSyntax(ctx, s.xmlPath)
	s.releaseDocument()

	switch result.Kind {
	case xmlops.KindNone:
		s.doc = result.Document
		s.lastError = ""
		return s.set(LabelWellFormed, StatusOK, result.Kind), nil
	case xmlops.KindSyntax:
		s.lastError = result.Text
		return s.set(LabelXMLSyntax, StatusError, result.Kind), nil
	default:
		s.lastError = xmlops.MsgInvalidFile
		return s.set(LabelIOError, StatusError, result.Kind), nil
	}
}

// Trim writes a trimmed copy of the selected XML file to out, or to
// DefaultOutputPath when out is empty. The checked document is kept. Every
// outcome clears the last error, since trim reports no details of its own.
func (s *Session) Trim(ctx context.Context, out string) (Status, error) {
	s.lastError = ""
	if s.xmlPath == "" {
		return s.set(LabelSelectXML, StatusError, xmlops.KindNone), ErrNoXMLSelected
	}
	if out == "" {
		out = s.DefaultOutputPath()
	}

	result := s.ops.TrimXML(ctx, s.xmlPath, out, xmlops.TrimOptions{Backup: s.backup})
	if result.Document != nil {
		result.Document.Release()
	}

	switch result.Kind {
	case xmlops.KindNone:
		logging.FromContext(ctx).Debug("session trim", logging.FieldOutput, out)
		return s.set(labelTrimmedPrefix+filepath.Base(out), StatusOK, result.Kind), nil
	case xmlops.KindSyntax:
		return s.set(LabelTrimSyntax, StatusError, result.Kind), nil
	default:
		return s.set(LabelIOError, StatusError, result.Kind), nil
	}
}

// Validate validates the checked document against the selected schema.
func (s *Session) Validate(ctx context.Context) (Status, error) {
	if s.xmlPath == "" || s.schemaPath == "" {
		return s.set(LabelSelectBoth, StatusError, xmlops.KindNone), ErrNoSchemaSelected
	}
	if s.doc == nil || s.doc.Released() {
		return s.set(LabelNotChecked, StatusError, xmlops.KindNone), ErrNotChecked
	}

	result := s.ops.ValidateXML(ctx, s.doc, s.schemaPath)
	s.lastError = result.Text

	switch result.Kind {
	case xmlops.KindNone:
		return s.set(LabelValid, StatusOK, result.Kind), nil
	case xmlops.KindSyntax:
		return s.set(LabelXSDSyntax, StatusError, result.Kind), nil
	case xmlops.KindSchema:
		return s.set(LabelSchemaInvalid, StatusError, result.Kind), nil
	default:
		return s.set(LabelIOError, StatusError, result.Kind), nil
	}
}

// SaveLog writes the last error text verbatim to path, or to
// DefaultLogPath when path is empty.
func (s *Session) SaveLog(ctx context.Context, path string) (Status, error) {
	if s.lastError == "" {
		return s.set(LabelNothingToSave, StatusError, xmlops.KindNone), ErrNothingToSave
	}
	if path == "" {
		path = s.DefaultLogPath()
	}

	if err := fsutil.WriteAtomic(ctx, path, []byte(s.lastError), fsutil.DefaultFileMode); err != nil {
		logging.FromContext(ctx).Debug("save log failed", logging.FieldPath, path, logging.FieldError, err)
		return s.set(LabelIOError, StatusError, xmlops.KindIO), err
	}
	return s.set(labelLogSavedPrefix+filepath.Base(path), StatusOK, xmlops.KindNone), nil
}

// DefaultOutputPath names trim output next to the XML file:
// dir/stem + suffix + ext.
func (s *Session) DefaultOutputPath() string {
	return OutputPath(s.xmlPath, s.outputSuffix)
}

// DefaultLogPath places the log file in the XML file's directory, or the
// working directory when no XML file is selected.
func (s *Session) DefaultLogPath() string {
	if s.xmlPath == "" {
		return s.logFile
	}
	return filepath.Join(filepath.Dir(s.xmlPath), s.logFile)
}

// Close releases the held document.
func (s *Session) Close() {
	s.releaseDocument()
}

// OutputPath returns path with suffix inserted before its extension.
func OutputPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

func (s *Session) releaseDocument() {
	if s.doc != nil {
		s.doc.Release()
		s.doc = nil
	}
}

func (s *Session) set(label string, level Level, kind xmlops.ErrorKind) Status {
	s.status = Status{Label: label, Level: level, Kind: kind}
	return s.status
}
