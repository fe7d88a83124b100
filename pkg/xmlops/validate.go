package xmlops

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"

	"github.com/emredjan/xml-validation/internal/logging"
	"github.com/emredjan/xml-validation/pkg/diag"
	"github.com/emredjan/xml-validation/pkg/fsutil"
)

// Schema is a compiled XSD. It is safe to validate many documents against
// one Schema concurrently.
type Schema struct {
	path     string
	compiled *xsd.Schema
}

// Path returns the file the schema was compiled from.
func (s *Schema) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// CompileSchema reads, checks and compiles the XSD at schemaPath.
//
// On failure the returned schema is nil and the result carries KindIO when
// the file (or one of its includes) cannot be read, or KindSyntax when the
// schema is not well-formed XML or does not compile. Diagnostics reference
// the schema path.
func (o *Operations) CompileSchema(ctx context.Context, schemaPath string) (*Schema, ValidateResult) {
	logger := o.log(ctx)

	data, _, err := fsutil.ReadFile(ctx, schemaPath)
	if err != nil {
		logger.Debug("schema read failed", logging.FieldSchema, schemaPath, logging.FieldError, err)
		return nil, validateFailure(KindIO, MsgSchemaIOError, nil)
	}

	collector := diag.NewCollector(schemaPath, o.maxErrors)
	if _, ok := checkWellFormed(data, collector); !ok {
		return nil, validateFailure(KindSyntax, collector.String(), collector.Log())
	}

	compiled, err := xsd.LoadFile(schemaPath)
	if err != nil {
		logger.Debug("schema compile failed", logging.FieldSchema, schemaPath, logging.FieldError, err)
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, validateFailure(KindIO, MsgSchemaIOError, nil)
		}
		addValidationErrors(collector, err, nil)
		return nil, validateFailure(KindSyntax, collector.String(), collector.Log())
	}

	return &Schema{path: schemaPath, compiled: compiled}, ValidateResult{OK: true, Kind: KindNone}
}

// ValidateXML validates a borrowed document against the XSD at schemaPath.
// The document is not parsed again; its own bytes are streamed into the
// validator so reported positions match what CheckSyntax read.
func (o *Operations) ValidateXML(ctx context.Context, doc *Document, schemaPath string) ValidateResult {
	start := time.Now()

	schema, result := o.CompileSchema(ctx, schemaPath)
	if !result.OK {
		return result
	}

	result = o.ValidateWith(ctx, doc, schema)
	o.log(ctx).Debug("schema validation",
		logging.FieldPath, doc.Path(),
		logging.FieldSchema, schemaPath,
		logging.FieldKind, result.Kind,
		logging.FieldDuration, time.Since(start),
	)
	return result
}

// ValidateWith validates a borrowed document against an already compiled
// schema.
func (o *Operations) ValidateWith(ctx context.Context, doc *Document, schema *Schema) ValidateResult {
	if doc.Released() {
		return validateFailure(KindIO, MsgNoDocument, nil)
	}
	if schema == nil || schema.compiled == nil {
		return validateFailure(KindIO, MsgSchemaIOError, nil)
	}
	if err := ctx.Err(); err != nil {
		return validateFailure(KindIO, err.Error(), nil)
	}

	collector := diag.NewCollector(doc.Path(), o.maxErrors)
	err := schema.compiled.Validate(bytes.NewReader(doc.source))
	if err == nil {
		return ValidateResult{OK: true, Kind: KindNone}
	}

	addValidationErrors(collector, err, doc.source)
	return validateFailure(KindSchema, collector.String(), collector.Log())
}

// addValidationErrors records each validation in err, or err itself when it
// carries no structured validations. When source is set, each message names
// the element whose tag sits at the reported position.
func addValidationErrors(c *diag.Collector, err error, source []byte) {
	validations, ok := xsderrors.AsValidations(err)
	if !ok || len(validations) == 0 {
		c.Add(diag.Diagnostic{Message: err.Error()})
		return
	}

	for _, v := range validations {
		c.Add(diag.Diagnostic{
			Line:    v.Line,
			Column:  v.Column,
			Code:    v.Code,
			Message: validationMessage(v, elementAt(source, v.Line, v.Column)),
			Path:    v.Path,
		})
	}
}

func validationMessage(v xsderrors.Validation, element string) string {
	var builder strings.Builder
	builder.WriteString(v.Message)
	if element != "" && !strings.Contains(v.Message, "<"+element+">") {
		builder.WriteString(" (element <")
		builder.WriteString(element)
		builder.WriteString(">)")
	}
	if len(v.Expected) > 0 {
		builder.WriteString(" (expected: ")
		builder.WriteString(strings.Join(v.Expected, ", "))
		builder.WriteString(")")
	}
	if v.Actual != "" {
		builder.WriteString(" (actual: ")
		builder.WriteString(v.Actual)
		builder.WriteString(")")
	}
	return builder.String()
}

// elementAt returns the name of the tag at line:col (both 1-based) of
// source, or "". A position inside the tag resolves to the nearest '<'
// before it on the same line.
func elementAt(source []byte, line, col int) string {
	if len(source) == 0 || line < 1 || col < 1 {
		return ""
	}

	for range line - 1 {
		nl := bytes.IndexByte(source, '\n')
		if nl < 0 {
			return ""
		}
		source = source[nl+1:]
	}
	if nl := bytes.IndexByte(source, '\n'); nl >= 0 {
		source = source[:nl]
	}

	offset := 0
	for range col - 1 {
		if offset >= len(source) {
			break
		}
		_, size := utf8.DecodeRune(source[offset:])
		offset += size
	}
	offset = min(offset, len(source)-1)
	if offset < 0 {
		return ""
	}

	open := bytes.LastIndexByte(source[:offset+1], '<')
	if open < 0 {
		return ""
	}
	tag := bytes.TrimPrefix(source[open+1:], []byte("/"))
	if end := bytes.IndexAny(tag, " \t\r/>"); end >= 0 {
		tag = tag[:end]
	}
	if len(tag) == 0 || tag[0] == '?' || tag[0] == '!' {
		return ""
	}
	return string(tag)
}
