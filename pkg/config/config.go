// Package config defines the configuration model for xmltools.
// These types are plain data; discovery and merging live in configloader.
package config

import "slices"

// Defaults for values a config file may leave unset.
const (
	DefaultIndent       = 2
	DefaultOutputSuffix = "_trimmed"
	DefaultLogFile      = "error_details.log"
)

// OutputFormat specifies the output format for batch results.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatSARIF OutputFormat = "sarif"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF:
		return true
	default:
		return false
	}
}

// ColorMode controls terminal color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the mode is known.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure.
//
// Pointer fields distinguish "unset" from an explicit zero so that a
// higher-precedence layer can turn a setting off.
type Config struct {
	// Indent is the number of spaces per level when trimming.
	Indent *int `yaml:"indent,omitempty" json:"indent,omitempty"`

	// UseTabs indents trimmed output with tabs instead of spaces.
	UseTabs *bool `yaml:"use_tabs,omitempty" json:"use_tabs,omitempty"`

	// Backup keeps a sidecar copy of a trim destination before overwriting it.
	Backup *bool `yaml:"backup,omitempty" json:"backup,omitempty"`

	// OutputSuffix is appended to the input file stem to name trim output.
	OutputSuffix string `yaml:"output_suffix,omitempty" json:"output_suffix,omitempty"`

	// Schema is the default XSD used by validate when none is given.
	Schema string `yaml:"schema,omitempty" json:"schema,omitempty"`

	// Extensions lists file extensions discovered in directories.
	Extensions []string `yaml:"extensions,omitempty" json:"extensions,omitempty"`

	// Exclude contains glob patterns for files to skip.
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`

	// Jobs is the number of parallel workers; 0 uses all CPUs.
	Jobs int `yaml:"jobs,omitempty" json:"jobs,omitempty"`

	// MaxErrors caps diagnostics collected per file; 0 is unlimited.
	MaxErrors int `yaml:"max_errors,omitempty" json:"max_errors,omitempty"`

	// Format is the batch output format.
	Format OutputFormat `yaml:"format,omitempty" json:"format,omitempty"`

	// Color controls colored output.
	Color ColorMode `yaml:"color,omitempty" json:"color,omitempty"`

	// LogFile is the default file name for saved error details.
	LogFile string `yaml:"log_file,omitempty" json:"log_file,omitempty"`

	// CLI-level options (not persisted to config files).

	// DryRun computes trim output without writing it.
	DryRun bool `yaml:"-" json:"-"`

	// Quiet suppresses per-file output for passing files.
	Quiet bool `yaml:"-" json:"-"`
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		Indent:       Int(DefaultIndent),
		UseTabs:      Bool(false),
		Backup:       Bool(false),
		OutputSuffix: DefaultOutputSuffix,
		Extensions:   []string{".xml"},
		Jobs:         0,
		MaxErrors:    0,
		Format:       FormatText,
		Color:        ColorAuto,
		LogFile:      DefaultLogFile,
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// IndentValue returns the configured indent or DefaultIndent.
func (c *Config) IndentValue() int {
	if c == nil || c.Indent == nil {
		return DefaultIndent
	}
	return *c.Indent
}

// UseTabsValue returns whether tabs are configured.
func (c *Config) UseTabsValue() bool {
	return c != nil && c.UseTabs != nil && *c.UseTabs
}

// BackupValue returns whether backups are configured.
func (c *Config) BackupValue() bool {
	return c != nil && c.Backup != nil && *c.Backup
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	if c.Indent != nil {
		clone.Indent = Int(*c.Indent)
	}
	if c.UseTabs != nil {
		clone.UseTabs = Bool(*c.UseTabs)
	}
	if c.Backup != nil {
		clone.Backup = Bool(*c.Backup)
	}
	clone.Extensions = slices.Clone(c.Extensions)
	clone.Exclude = slices.Clone(c.Exclude)
	return &clone
}
