package cli

import (
	"context"
	"time"

	"resumatch/internal/common"
	"resumatch/internal/nlp"

	"github.com/spf13/cobra"
)

const providerCheckTimeout = 15 * time.Second

func newProvidersCmd() *cobra.Command {
	var cmdConfig common.CommandConfig

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Show the configured NLP providers and their health",
		Long: `Show which provider and model serve entity recognition and sentence
similarity, whether each one is reachable, and its circuit breaker state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			logger, err := getLoggerFromContext(cmd.Context())
			if err != nil {
				return err
			}

			service, err := nlp.NewService(cfg, logger, nil)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), providerCheckTimeout)
			defer cancel()

			// provider info has no text layout
			cmdConfig.OutputFormat = "json"
			return common.NewOutputHandler(logger).
				WithWriter(cmd.OutOrStdout()).
				HandleOutput(service.Info(ctx), cmdConfig)
		},
	}

	cmd.Flags().StringVarP(&cmdConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}
