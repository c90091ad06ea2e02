package cli

import (
	"context"
	"fmt"

	"resumatch/internal/config"
	"resumatch/internal/errors"

	"github.com/spf13/cobra"
)

type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resumatch",
		Short: "Score how well a resume matches a job description",
		Long: `Resumatch compares a resume with a job description and reports a match
score, matched and missing skills, an ATS compatibility breakdown, the detected
industry and recommendations.

Remote NLP models (Hugging Face or Gemini) refine entity extraction and semantic
similarity when configured; every remote step falls back to a local heuristic.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newScoreCmd())
	cmd.AddCommand(newCatalogCmd())
	cmd.AddCommand(newProvidersCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command with cfg and logger available to every subcommand
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	return execute(ctx, rootCmd, cfg, logger)
}

func execute(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *errors.Logger) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	return cmd.ExecuteContext(ctx)
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok && cfg != nil {
		return cfg, nil
	}
	return nil, fmt.Errorf("config not found in context")
}

func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok && logger != nil {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in context")
}
