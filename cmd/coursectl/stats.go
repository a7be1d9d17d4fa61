package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hqtest/courses-server/internal/features/stats"
)

func newStatsCmd(a *app) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print per-product viewing and purchase statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []stats.ProductStats

			if productID != "" {
				pid, err := uuid.Parse(productID)
				if err != nil {
					return fmt.Errorf("invalid product id %q: %w", productID, err)
				}
				row, err := stats.ForProduct(a.db, pid)
				if err != nil {
					return err
				}
				rows = []stats.ProductStats{row}
			} else {
				var err error
				if rows, err = stats.All(a.db); err != nil {
					return err
				}
			}

			if a.jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tOWNER\tWATCHED\tSECONDS\tSTUDENTS\tPURCHASE %")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.1f\n",
					r.ID, r.Name, r.Owner, r.TotalLessonsWatched, r.TotalSecondsWatched,
					r.TotalStudentsWithAccess, r.PercentageOfPurchase)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Limit output to one product ID")
	return cmd
}
