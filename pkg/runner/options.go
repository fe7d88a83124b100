// Package runner checks and validates many XML files concurrently.
package runner

import "github.com/emredjan/xml-validation/pkg/config"

// Mode selects what the runner does with each file.
type Mode int

const (
	// ModeCheck checks well-formedness only.
	ModeCheck Mode = iota

	// ModeValidate checks well-formedness, then validates against SchemaPath.
	ModeValidate
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeValidate {
		return "validate"
	}
	return "check"
}

// Options controls multi-file behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) picked up
	// in directories. Defaults to DefaultExtensions().
	Extensions []string

	// DetectContent also sniffs files with other extensions and includes
	// those go-enry classifies as XML.
	DetectContent bool

	// IncludeGlobs are additional glob patterns to include, relative to WorkingDir.
	// Empty means "include everything that matches Extensions".
	IncludeGlobs []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Mode selects check or validate.
	Mode Mode

	// SchemaPath is the XSD used in ModeValidate.
	SchemaPath string
}

// OptionsFromConfig fills the discovery and concurrency fields from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths}
	if cfg == nil {
		return opts
	}
	opts.Extensions = cfg.Extensions
	opts.ExcludeGlobs = cfg.Exclude
	opts.Jobs = cfg.Jobs
	opts.SchemaPath = cfg.Schema
	return opts
}

// DefaultExtensions returns the default set of XML file extensions.
func DefaultExtensions() []string {
	return []string{".xml"}
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
