package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/emredjan/xml-validation/internal/logging"
	"github.com/emredjan/xml-validation/pkg/xmlops"
)

// Runner checks or validates many files with a shared set of Operations.
type Runner struct {
	// Ops performs the per-file work. Its indent and diagnostic cap apply
	// to every file.
	Ops *xmlops.Operations
}

// New creates a new Runner. A nil ops uses default Operations.
func New(ops *xmlops.Operations) *Runner {
	if ops == nil {
		ops = xmlops.New()
	}
	return &Runner{Ops: ops}
}

// Run discovers files under opts.Paths and processes them concurrently.
// It returns outcomes ordered by path and aggregate stats.
//
// In ModeValidate the schema is compiled once before any file is read.
// If it does not compile, Result.Schema carries the failure and no file is
// processed.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Mode:  opts.Mode,
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	var schema *xmlops.Schema
	if opts.Mode == ModeValidate {
		compileStart := time.Now()
		compiled, res := r.Ops.CompileSchema(ctx, opts.SchemaPath)
		result.Schema = &FileOutcome{
			Path:        opts.SchemaPath,
			Kind:        res.Kind,
			Text:        res.Text,
			Diagnostics: res.Diagnostics,
			Duration:    time.Since(compileStart),
		}
		if !res.OK {
			logger.Debug("schema failed", logging.FieldSchema, opts.SchemaPath, logging.FieldKind, res.Kind)
			return result, nil
		}
		schema = compiled
	}

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logger.Debug("run starting",
		logging.FieldMode, opts.Mode,
		logging.FieldFilesDiscovered, len(files),
		logging.FieldJobs, jobs,
	)

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, schema)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; index by path and rebuild in file order.
	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	logger.Debug("run finished",
		logging.FieldFilesOK, result.Stats.FilesOK,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
		logging.FieldDiagnosticsTotal, result.Stats.Diagnostics,
		logging.FieldDuration, time.Since(start),
	)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// worker processes files from workCh and sends outcomes to outCh.
func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	schema *xmlops.Schema,
) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.process(ctx, path, schema)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// process checks one file and, when schema is set, validates it.
func (r *Runner) process(ctx context.Context, path string, schema *xmlops.Schema) FileOutcome {
	start := time.Now()

	parsed := r.Ops.CheckSyntax(ctx, path)
	if !parsed.OK {
		return FileOutcome{
			Path:        path,
			Kind:        parsed.Kind,
			Text:        parsed.Text,
			Diagnostics: parsed.Diagnostics,
			Duration:    time.Since(start),
		}
	}
	defer parsed.Document.Release()

	if schema == nil {
		return FileOutcome{Path: path, Duration: time.Since(start)}
	}

	validated := r.Ops.ValidateWith(ctx, parsed.Document, schema)
	return FileOutcome{
		Path:        path,
		Kind:        validated.Kind,
		Text:        validated.Text,
		Diagnostics: validated.Diagnostics,
		Duration:    time.Since(start),
	}
}
