package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/emredjan/xml-validation/pkg/runner"
)

// jsonSchemaVersion versions the JSON document layout.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Mode    string           `json:"mode"`
	Schema  *JSONFileResult  `json:"schema,omitempty"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path        string           `json:"path"`
	OK          bool             `json:"ok"`
	Kind        string           `json:"kind,omitempty"`
	Error       string           `json:"error,omitempty"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	DurationMS  float64          `json:"durationMs"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked int            `json:"filesChecked"`
	FilesOK      int            `json:"filesOk"`
	FilesFailed  int            `json:"filesFailed"`
	TotalIssues  int            `json:"totalIssues"`
	ByKind       map[string]int `json:"byKind"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Mode:    runner.ModeCheck.String(),
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			ByKind: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	output.Mode = result.Mode.String()
	if result.Schema != nil {
		schema := r.fileResult(*result.Schema)
		output.Schema = &schema
	}

	if len(result.Files) > 0 {
		output.Files = make([]JSONFileResult, 0, len(result.Files))
	}
	for _, file := range result.Files {
		output.Files = append(output.Files, r.fileResult(file))
		if !file.OK() {
			output.Summary.ByKind[file.Kind.String()]++
		}
	}

	output.Summary.FilesChecked = result.Stats.FilesOK + result.Stats.FilesFailed
	output.Summary.FilesOK = result.Stats.FilesOK
	output.Summary.FilesFailed = result.Stats.FilesFailed
	output.Summary.TotalIssues = totalIssues(result)

	return output
}

func (r *JSONReporter) fileResult(outcome runner.FileOutcome) JSONFileResult {
	fileResult := JSONFileResult{
		Path:        r.opts.displayPath(outcome.Path),
		OK:          outcome.OK(),
		Diagnostics: make([]JSONDiagnostic, 0, outcome.Diagnostics.Len()),
		DurationMS:  float64(outcome.Duration.Microseconds()) / 1000,
	}
	if outcome.OK() {
		return fileResult
	}

	fileResult.Kind = outcome.Kind.String()
	fileResult.Error = outcome.Text
	for _, d := range outcome.Diagnostics {
		fileResult.Diagnostics = append(fileResult.Diagnostics, JSONDiagnostic{
			Line:    d.Line,
			Column:  d.Column,
			Code:    d.Code,
			Message: d.Message,
			Path:    d.Path,
		})
	}
	return fileResult
}
