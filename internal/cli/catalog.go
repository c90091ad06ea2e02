package cli

import (
	"resumatch/internal/catalog"
	"resumatch/internal/common"

	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	var cmdConfig common.CommandConfig

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the keyword catalog and industry taxonomy",
		Long: `Print the skill terms used for keyword matching, their categories and the
ordered industry taxonomy. A catalog file set in scoring.catalogFile replaces the
built-in tables.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return resolveOutputFormat(cmd.Context(), &cmdConfig)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			logger, err := getLoggerFromContext(cmd.Context())
			if err != nil {
				return err
			}

			cat, taxonomy, err := loadCatalog(cfg, logger)
			if err != nil {
				return err
			}

			return common.NewOutputHandler(logger).
				WithWriter(cmd.OutOrStdout()).
				HandleOutput(catalog.Listing(cat, taxonomy), cmdConfig)
		},
	}

	addOutputFlags(cmd, &cmdConfig)
	return cmd
}
