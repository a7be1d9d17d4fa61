package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hqtest/courses-server/internal/features/productaccess"
	"github.com/hqtest/courses-server/internal/features/user"
)

func newGrantAccessCmd(a *app) *cobra.Command {
	var (
		username  string
		productID string
	)

	cmd := &cobra.Command{
		Use:   "grant-access",
		Short: "Give a user access to a product",
		Long: `Give a user access to a product. Granting an existing pair succeeds
without creating a second grant.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := uuid.Parse(productID)
			if err != nil {
				return fmt.Errorf("invalid product id %q: %w", productID, err)
			}

			usr, err := user.GetByUsername(a.db, username)
			if err != nil {
				return fmt.Errorf("find user %s: %w", username, err)
			}

			_, created, err := productaccess.Grant(a.db, usr.ID, pid)
			if err != nil {
				return fmt.Errorf("grant access: %w", err)
			}

			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "granted %s access to %s\n", usr.Username, pid)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already has access to %s\n", usr.Username, pid)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "Username receiving access (required)")
	cmd.Flags().StringVar(&productID, "product", "", "Product ID (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}
