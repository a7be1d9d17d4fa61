package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hqtest/courses-server/internal/bootstrap"
	"github.com/hqtest/courses-server/pkg/database/migrations"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootstrap.Migrate(cmd.Context(), a.db, a.logger); err != nil {
				return err
			}
			for _, name := range migrations.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			return nil
		},
	}
}
