package runner

import (
	"time"

	"github.com/emredjan/xml-validation/pkg/diag"
	"github.com/emredjan/xml-validation/pkg/xmlops"
)

// FileOutcome is the result of processing one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string `json:"path"`

	// Kind is KindNone when the file passed.
	Kind xmlops.ErrorKind `json:"kind"`

	// Text is the rendered error text, as the single-file commands show it.
	Text string `json:"text,omitempty"`

	// Diagnostics are the structured entries behind Text.
	Diagnostics diag.Log `json:"diagnostics,omitempty"`

	// Duration is the wall time spent on the file.
	Duration time.Duration `json:"duration_ns"`
}

// OK reports whether the file passed.
func (o FileOutcome) OK() bool {
	return o.Kind == xmlops.KindNone
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int `json:"files_discovered"`
	FilesOK         int `json:"files_ok"`
	FilesFailed     int `json:"files_failed"`
	IOErrors        int `json:"io_errors"`
	SyntaxErrors    int `json:"syntax_errors"`
	SchemaErrors    int `json:"schema_errors"`
	Diagnostics     int `json:"diagnostics"`
}

// Result is the overall runner result.
type Result struct {
	// Mode is the mode the run used.
	Mode Mode `json:"-"`

	// Schema is the schema compilation outcome in ModeValidate. When it
	// failed no file was processed.
	Schema *FileOutcome `json:"schema,omitempty"`

	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome `json:"files"`

	// Stats contains aggregate statistics for the run.
	Stats Stats `json:"stats"`
}

// HasFailures reports whether any file, or the schema, failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0 || r.SchemaFailed()
}

// SchemaFailed reports whether the schema could not be compiled.
func (r *Result) SchemaFailed() bool {
	return r != nil && r.Schema != nil && !r.Schema.OK()
}

// WorstKind returns the most severe failure kind in the run: IO over
// Syntax over Schema.
func (r *Result) WorstKind() xmlops.ErrorKind {
	if r == nil {
		return xmlops.KindNone
	}

	worst := xmlops.KindNone
	consider := func(kind xmlops.ErrorKind) {
		if severity(kind) > severity(worst) {
			worst = kind
		}
	}
	if r.Schema != nil {
		consider(r.Schema.Kind)
	}
	for _, f := range r.Files {
		consider(f.Kind)
	}
	return worst
}

func severity(kind xmlops.ErrorKind) int {
	switch kind {
	case xmlops.KindIO:
		return 3
	case xmlops.KindSyntax:
		return 2
	case xmlops.KindSchema:
		return 1
	default:
		return 0
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)
	r.Stats.Diagnostics += outcome.Diagnostics.Len()

	switch outcome.Kind {
	case xmlops.KindNone:
		r.Stats.FilesOK++
		return
	case xmlops.KindIO:
		r.Stats.IOErrors++
	case xmlops.KindSyntax:
		r.Stats.SyntaxErrors++
	case xmlops.KindSchema:
		r.Stats.SchemaErrors++
	}
	r.Stats.FilesFailed++
}
