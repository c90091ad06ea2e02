package cli

import (
	"context"
	"fmt"
	"time"

	"resumatch/internal/common"
	"resumatch/internal/formatters"
	"resumatch/internal/scoring"
	"resumatch/internal/types"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var cmdConfig common.CommandConfig

	cmd := &cobra.Command{
		Use:   "score <resume-file> <job-description-file>",
		Short: "Score a resume against a job description",
		Long: `Score a plain-text resume against a job description.

The report includes:
- Match score (0-100) from semantic similarity
- Matched and missing catalog skills
- ATS compatibility breakdown
- Entities (skills, companies, locations) found in both texts
- Detected industry with industry-specific advice
- Recommendations`,
		Args: cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return resolveOutputFormat(cmd.Context(), &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdConfig.Stdout = cmd.OutOrStdout()
			return runScore(cmd.Context(), cmdConfig, args)
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	return cmd
}

func runScore(ctx context.Context, cmdConfig common.CommandConfig, args []string) error {
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(ctx)
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.shutdown(context.WithoutCancel(ctx), logger)

	cmdConfig.MaxFileSize = cfg.App.MaxFileSize
	cmdConfig.Registry = formatters.NewRegistry(rt.catalog)

	score := func(ctx context.Context, contents []string) (*types.ScoringResult, error) {
		if len(contents) != 2 {
			return nil, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		logger.Info("Scoring resume",
			"resume_file", args[0],
			"job_file", args[1],
			"resume_length", len(contents[0]),
			"job_length", len(contents[1]))
		return rt.engine.Score(ctx, contents[0], contents[1])
	}

	return common.RunFileCommand(ctx, logger, cmdConfig, args, score)
}

// resolveOutputFormat applies the configured default format and validates the result
func resolveOutputFormat(ctx context.Context, cmdConfig *common.CommandConfig) error {
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return err
	}

	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}

	format, err := common.NormalizeOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
	if err != nil {
		return err
	}
	cmdConfig.OutputFormat = format
	return nil
}

func addOutputFlags(cmd *cobra.Command, cmdConfig *common.CommandConfig) {
	cmd.Flags().StringVarP(&cmdConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cmdConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func durationOr(d *time.Duration) time.Duration {
	if d == nil || *d <= 0 {
		return scoring.DefaultRemoteTimeout
	}
	return *d
}
