package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emredjan/xml-validation/internal/configloader"
	"github.com/emredjan/xml-validation/internal/logging"
	"github.com/emredjan/xml-validation/pkg/config"
	"github.com/emredjan/xml-validation/pkg/xmlops"
)

// commandContext returns the command's context, or a background context.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the effective configuration for a command, with cli
// holding the values of flags the user set explicitly.
func loadConfig(cmd *cobra.Command, cli *config.Config) (*config.Config, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	if cli == nil {
		cli = &config.Config{}
	}

	if cmd.Flags().Changed(flagColor) {
		color, err := cmd.Flags().GetString(flagColor)
		if err != nil {
			return nil, fmt.Errorf("get color flag: %w", err)
		}
		cli.Color = config.ColorMode(color)
	}

	configPath, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}
	noConfig, err := cmd.Flags().GetBool(flagNoConfig)
	if err != nil {
		return nil, fmt.Errorf("get no-config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	opts := configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
	}
	if noConfig {
		opts = configloader.NoConfig(cli)
		opts.WorkingDir = workDir
	}

	result, err := configloader.Load(ctx, opts)
	if err != nil {
		var validationErr *configloader.ValidationError
		if errors.As(err, &validationErr) && validationErr.FilePath == "" {
			return nil, withExitCode(ExitInvalidUsage, err)
		}
		return nil, withExitCode(ExitConfigError, fmt.Errorf("load configuration: %w", err))
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if configPath != "" {
		logger.Debug("explicit configuration", logging.FieldConfig, configPath)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, result.LoadedFrom)
	}

	return result.Config, nil
}

// newOperations builds the facade configured by cfg.
func newOperations(ctx context.Context, cfg *config.Config) *xmlops.Operations {
	return xmlops.New(
		xmlops.WithIndent(cfg.IndentValue()),
		xmlops.WithTabs(cfg.UseTabsValue()),
		xmlops.WithMaxErrors(cfg.MaxErrors),
		xmlops.WithLogger(logging.FromContext(ctx)),
	)
}
