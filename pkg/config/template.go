package config

import (
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string

	// Full writes every setting uncommented. Otherwise only the
	// frequently changed ones are active.
	Full bool
}

// templateHeader opens every generated YAML template.
const templateHeader = `# xmltools configuration
# Settings here are merged over system and user configuration.
`

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch strings.ToLower(opts.Format) {
	case "", "yaml", "yml":
		return generateYAMLTemplate(opts), nil
	case "json":
		return NewConfig().ToJSON()
	default:
		return nil, fmt.Errorf("unknown template format %q: must be yaml or json", opts.Format)
	}
}

func generateYAMLTemplate(opts TemplateOptions) []byte {
	defaults := NewConfig()

	var builder strings.Builder
	builder.WriteString(templateHeader)

	setting := func(comment, line string, active bool) {
		fmt.Fprintf(&builder, "\n# %s\n", comment)
		if !active {
			builder.WriteString("# ")
		}
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	setting("Spaces per indentation level for trimmed output",
		fmt.Sprintf("indent: %d", defaults.IndentValue()), true)
	setting("Indent trimmed output with tabs instead of spaces",
		"use_tabs: false", opts.Full)
	setting("Keep a .xmltools.bak copy of a trim destination before overwriting it",
		"backup: false", opts.Full)
	setting("Suffix appended to the input name for trimmed output (doc.xml -> doc_trimmed.xml)",
		fmt.Sprintf("output_suffix: %s", defaults.OutputSuffix), opts.Full)
	setting("Default XSD schema for validate",
		"schema: schema.xsd", false)
	setting("Extensions discovered when a directory is checked",
		"extensions: [.xml]", opts.Full)
	setting("Glob patterns to skip",
		`exclude: ["vendor/**", "build/**"]`, false)
	setting("Parallel workers for batch runs (0 = one per CPU)",
		"jobs: 0", opts.Full)
	setting("Maximum diagnostics collected per file (0 = unlimited)",
		"max_errors: 0", opts.Full)
	setting("Batch output format: text, json or sarif",
		fmt.Sprintf("format: %s", defaults.Format), opts.Full)
	setting("Colored output: auto, always or never",
		fmt.Sprintf("color: %s", defaults.Color), opts.Full)
	setting("Default file name for saved error details",
		fmt.Sprintf("log_file: %s", defaults.LogFile), opts.Full)

	return []byte(builder.String())
}
