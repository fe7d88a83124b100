package logging

// Structured field keys shared across packages.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Per-operation.
	FieldSchema   = "schema"
	FieldKind     = "kind"
	FieldMode     = "mode"
	FieldDuration = "duration"
	FieldDryRun   = "dry_run"
	FieldJobs     = "jobs"
	FieldBackup   = "backup"

	// Batch totals.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesOK          = "files_ok"
	FieldFilesFailed      = "files_failed"
	FieldDiagnosticsTotal = "diagnostics_total"

	// Build info.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
