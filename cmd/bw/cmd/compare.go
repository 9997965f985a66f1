package cmd

import (
	"context"

	"github.com/spf13/cobra"

	apiclient "github.com/basketwatch/basketwatch/internal/api/client"
	domain "github.com/basketwatch/basketwatch/pkg/types"
)

func compareCmd() *cobra.Command {
	var (
		platforms   []string
		city        string
		strict      bool
		skipPersist bool
	)

	cmd := &cobra.Command{
		Use:   "compare <query>",
		Short: "Run a price comparison",
		Long: "Runs an on-demand comparison on the server: the query is fanned out\n" +
			"to every configured platform and equivalent products are grouped so\n" +
			"prices can be compared side by side.",
		Example: `  bw compare "tata salt 1kg"
  bw compare "amul butter" --platforms zepto,blinkit --strict
  bw compare "organic honey" --skip-persist --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			req := apiclient.CompareRequest{
				Query:       args[0],
				Platforms:   platforms,
				Strict:      strict,
				SkipPersist: skipPersist,
			}
			if city != "" {
				req.Location = &domain.Location{City: city}
			}

			c := newClient()
			result, err := c.Compare(context.Background(), req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(result)
			}
			return printComparison(result)
		},
	}

	cmd.Flags().StringSliceVar(&platforms, "platforms", nil, "restrict to these platforms")
	cmd.Flags().StringVar(&city, "city", "", "delivery city for the run")
	cmd.Flags().BoolVar(&strict, "strict", false, "strict quantity matching")
	cmd.Flags().BoolVar(&skipPersist, "skip-persist", false, "do not store the result")

	return cmd
}
