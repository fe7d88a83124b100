package configloader

import (
	"slices"

	"github.com/emredjan/xml-validation/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Pointer values: override wins whenever it is non-nil, so false and 0 stick
//   - Other scalars: override wins if non-zero
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override.Clone()
	}
	if override == nil {
		return base.Clone()
	}

	result := base.Clone()

	if override.Indent != nil {
		result.Indent = config.Int(*override.Indent)
	}
	if override.UseTabs != nil {
		result.UseTabs = config.Bool(*override.UseTabs)
	}
	if override.Backup != nil {
		result.Backup = config.Bool(*override.Backup)
	}

	if override.OutputSuffix != "" {
		result.OutputSuffix = override.OutputSuffix
	}
	if override.Schema != "" {
		result.Schema = override.Schema
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.MaxErrors != 0 {
		result.MaxErrors = override.MaxErrors
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.LogFile != "" {
		result.LogFile = override.LogFile
	}

	// CLI-only flags only ever turn on.
	if override.DryRun {
		result.DryRun = true
	}
	if override.Quiet {
		result.Quiet = true
	}

	if override.Extensions != nil {
		result.Extensions = slices.Clone(override.Extensions)
	}
	if override.Exclude != nil {
		result.Exclude = slices.Clone(override.Exclude)
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
