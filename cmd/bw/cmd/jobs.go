package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func jobsCmd() *cobra.Command {
	jobsRoot := &cobra.Command{
		Use:   "jobs",
		Short: "View scheduler job history",
		Long: "View the execution history of scheduled jobs. Each run records\n" +
			"status, duration, refreshed watch count, and any errors.",
	}

	jobsRoot.AddCommand(jobsHistoryCmd())

	return jobsRoot
}

func jobsHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <job_name>",
		Short: "Show run history for a job",
		Args:  cobra.ExactArgs(1),
		Example: `  bw jobs history watch_refresh
  bw jobs history watch_refresh --output json`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			runs, err := c.GetJobHistory(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(runs)
			}
			if len(runs) == 0 {
				fmt.Printf("No runs found for job %q.\n", args[0])
				return nil
			}
			return printJobRunsTable(runs)
		},
	}
}
