package reporter

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/emredjan/xml-validation/pkg/diag"
	"github.com/emredjan/xml-validation/pkg/runner"
	"github.com/emredjan/xml-validation/pkg/xmlops"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// Rule IDs for failures that carry no validator code.
const (
	ruleIO     = "xml-io"
	ruleSyntax = "xml-syntax"
	ruleSchema = "xsd-schema"
)

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a class of failure.
type SARIFRule struct {
	ID               string               `json:"id"`
	Name             string               `json:"name,omitempty"`
	ShortDescription SARIFMultiformatText `json:"shortDescription"`
	DefaultConfig    *SARIFRuleConfig     `json:"defaultConfiguration,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single diagnostic result.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           *SARIFRegion          `json:"region,omitempty"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
}

// SARIFReporter formats results as SARIF.
type SARIFReporter struct {
	opts Options
	out  io.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		out:  opts.Writer,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.out)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

// sarifBuilder accumulates rules and results for one run.
type sarifBuilder struct {
	opts      Options
	run       *SARIFRun
	rulesSeen map[string]bool
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	version := r.opts.ToolVersion
	if version == "" {
		version = "dev"
	}

	output := &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs: []SARIFRun{{
			Tool: SARIFTool{
				Driver: SARIFDriver{
					Name:           "xmltools",
					Version:        version,
					InformationURI: "https://github.com/emredjan/xml-validation",
					Rules:          make([]SARIFRule, 0),
				},
			},
			Results: make([]SARIFResult, 0),
		}},
	}

	if result == nil {
		return output
	}

	builder := &sarifBuilder{
		opts:      r.opts,
		run:       &output.Runs[0],
		rulesSeen: make(map[string]bool),
	}

	if result.Schema != nil {
		builder.addOutcome(*result.Schema)
	}
	for _, file := range result.Files {
		builder.addOutcome(file)
	}

	return output
}

// addOutcome appends one result per diagnostic of a failed outcome, or a
// single file-level result when it has none.
func (b *sarifBuilder) addOutcome(outcome runner.FileOutcome) {
	if outcome.OK() {
		return
	}

	uri := filepath.ToSlash(b.opts.displayPath(outcome.Path))

	if outcome.Diagnostics.Empty() {
		b.add(outcome.Kind, "", outcome.Text, uri, nil)
		return
	}

	for _, d := range outcome.Diagnostics {
		var region *SARIFRegion
		if d.Line > 0 {
			region = &SARIFRegion{StartLine: d.Line, StartColumn: d.Column}
		}
		b.add(outcome.Kind, d.Code, message(d), uri, region)
	}
}

func (b *sarifBuilder) add(kind xmlops.ErrorKind, code, text, uri string, region *SARIFRegion) {
	ruleID := ruleForKind(kind)
	if code != "" {
		ruleID = code
	}

	if !b.rulesSeen[ruleID] {
		b.run.Tool.Driver.Rules = append(b.run.Tool.Driver.Rules, SARIFRule{
			ID:               ruleID,
			Name:             kind.String(),
			ShortDescription: SARIFMultiformatText{Text: describeKind(kind)},
			DefaultConfig:    &SARIFRuleConfig{Level: "error"},
		})
		b.rulesSeen[ruleID] = true
	}

	b.run.Results = append(b.run.Results, SARIFResult{
		RuleID:  ruleID,
		Level:   "error",
		Message: SARIFMessage{Text: text},
		Locations: []SARIFLocation{{
			PhysicalLocation: SARIFPhysicalLocation{
				ArtifactLocation: SARIFArtifactLocation{URI: uri},
				Region:           region,
			},
		}},
	})
}

func message(d diag.Diagnostic) string {
	if d.Path != "" {
		return d.Message + " (at " + d.Path + ")"
	}
	return d.Message
}

func ruleForKind(kind xmlops.ErrorKind) string {
	switch kind {
	case xmlops.KindIO:
		return ruleIO
	case xmlops.KindSchema:
		return ruleSchema
	default:
		return ruleSyntax
	}
}

func describeKind(kind xmlops.ErrorKind) string {
	switch kind {
	case xmlops.KindIO:
		return "File could not be read"
	case xmlops.KindSchema:
		return "Document does not conform to the schema"
	default:
		return "Document is not well-formed XML"
	}
}
