package main

import (
	"github.com/deppfellow/surf-tools/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the surf_breaks and forecast_data tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := root.load()
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.cfg.ValidateDatabase(); err != nil {
				return err
			}

			return database.Migrate(cmd.Context(), rt.logger, rt.cfg)
		},
	}
}
