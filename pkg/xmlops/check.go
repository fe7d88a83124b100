package xmlops

import (
	"context"
	"time"

	"github.com/emredjan/xml-validation/internal/logging"
	"github.com/emredjan/xml-validation/pkg/diag"
	"github.com/emredjan/xml-validation/pkg/fsutil"
)

// CheckSyntax reads path and checks that it is well-formed XML.
//
// An unreadable path yields KindIO with the fixed text MsgInvalidFile.
// Malformed XML yields KindSyntax with the rendered diagnostic log.
// On success the returned Document is owned by the caller.
func (o *Operations) CheckSyntax(ctx context.Context, path string) ParseResult {
	start := time.Now()
	logger := o.log(ctx)

	data, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		logger.Debug("xml read failed", logging.FieldPath, path, logging.FieldError, err)
		return parseFailure(KindIO, MsgInvalidFile, nil)
	}

	result := o.checkBytes(path, data)
	logger.Debug("syntax check",
		logging.FieldPath, path,
		logging.FieldKind, result.Kind,
		logging.FieldDuration, time.Since(start),
	)
	return result
}

// CheckBytes checks data as if it had been read from path. It performs no I/O.
func (o *Operations) CheckBytes(path string, data []byte) ParseResult {
	return o.checkBytes(path, data)
}

func (o *Operations) checkBytes(path string, data []byte) ParseResult {
	collector := diag.NewCollector(path, o.maxErrors)
	scanned, ok := checkWellFormed(data, collector)
	if !ok {
		return parseFailure(KindSyntax, collector.String(), collector.Log())
	}

	doc, err := newDocument(path, scanned)
	if err != nil {
		collector.Addf(1, 1, "%v", err)
		return parseFailure(KindSyntax, collector.String(), collector.Log())
	}

	return ParseResult{OK: true, Kind: KindNone, Document: doc}
}
