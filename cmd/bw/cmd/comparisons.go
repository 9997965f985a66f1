package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apiclient "github.com/basketwatch/basketwatch/internal/api/client"
)

func comparisonsCmd() *cobra.Command {
	comparisonsRoot := &cobra.Command{
		Use:   "comparisons",
		Short: "Browse stored comparison runs",
	}

	comparisonsRoot.AddCommand(
		comparisonsListCmd(),
		comparisonsGetCmd(),
		comparisonsLatestCmd(),
	)

	return comparisonsRoot
}

func comparisonsListCmd() *cobra.Command {
	var (
		query string
		since string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored comparisons",
		Example: `  bw comparisons list
  bw comparisons list --query "tata salt 1kg" --since 2026-03-01T00:00:00Z`,
		RunE: func(_ *cobra.Command, _ []string) error {
			filter := apiclient.ComparisonFilter{
				SearchQuery: query,
				Limit:       limit,
			}
			if since != "" {
				t, err := time.Parse(time.RFC3339, since)
				if err != nil {
					return fmt.Errorf("parsing --since: %w", err)
				}
				filter.Since = t
			}

			c := newClient()
			page, err := c.ListComparisons(context.Background(), filter)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(page)
			}
			if len(page.Comparisons) == 0 {
				fmt.Println("No comparisons found.")
				return nil
			}
			return printComparisonListTable(page.Comparisons)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "filter by exact search query")
	cmd.Flags().StringVar(&since, "since", "", "only runs at or after this RFC 3339 timestamp")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of results")

	return cmd
}

func comparisonsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a stored comparison",
		Example: `  bw comparisons get 5f8c2e2a-9a1b-4a77-9f2d-3d6f0c1b2a01
  bw comparisons get 5f8c2e2a-9a1b-4a77-9f2d-3d6f0c1b2a01 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			result, err := c.GetComparison(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(result)
			}
			return printComparison(result)
		},
	}
}

func comparisonsLatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest <query>",
		Short: "Show the newest comparison for a query",
		Example: `  bw comparisons latest "tata salt 1kg"
  bw comparisons latest "amul butter" --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			result, err := c.LatestComparison(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(result)
			}
			return printComparison(result)
		},
	}
}
