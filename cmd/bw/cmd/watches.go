package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

func watchCmd() *cobra.Command {
	watchRoot := &cobra.Command{
		Use:   "watches",
		Short: "Manage watches",
		Long: "Manage saved comparison queries that the scheduler refreshes on an\n" +
			"interval, firing alerts when the best price drops below a threshold.",
	}

	watchRoot.AddCommand(
		watchListCmd(),
		watchGetCmd(),
		watchCreateCmd(),
		watchEnableCmd(),
		watchDisableCmd(),
		watchDeleteCmd(),
	)

	return watchRoot
}

func watchListCmd() *cobra.Command {
	var enabledOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all watches",
		Example: `  bw watches list
  bw watches list --enabled --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			watches, err := c.ListWatches(context.Background(), enabledOnly)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(watches)
			}
			if len(watches) == 0 {
				fmt.Println("No watches found.")
				return nil
			}
			return printWatchTable(watches)
		},
	}

	cmd.Flags().BoolVar(&enabledOnly, "enabled", false, "only enabled watches")

	return cmd
}

func watchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show watch details",
		Example: `  bw watches get abc123
  bw watches get abc123 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			w, err := c.GetWatch(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(w)
			}
			return printWatchDetail(w)
		},
	}
}

func watchCreateCmd() *cobra.Command {
	var (
		watchName      string
		watchQuery     string
		watchPlatforms []string
		watchMaxPrice  float64
		watchStrict    bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new watch",
		Long: "Create a new watch for a product search query. The watch is enabled\n" +
			"by default and refreshed on the next scheduler cycle. With --max-price\n" +
			"set, an alert fires when any platform's price drops to or below it.",
		Example: `  # Watch salt prices everywhere
  bw watches create --name "Salt watch" --query "tata salt 1kg"

  # Alert when butter drops to 50 or less on zepto or blinkit
  bw watches create --name "Butter deal" --query "amul butter 500g" \
    --platforms zepto,blinkit --max-price 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watchName == "" || watchQuery == "" {
				return fmt.Errorf("--name and --query are required")
			}

			w := &domain.Watch{
				Name:        watchName,
				SearchQuery: watchQuery,
				Strict:      watchStrict,
				Enabled:     true,
			}
			for _, p := range watchPlatforms {
				w.Platforms = append(w.Platforms, domain.Platform(p))
			}
			if cmd.Flags().Changed("max-price") {
				w.MaxPrice = &watchMaxPrice
			}

			c := newClient()
			created, err := c.CreateWatch(context.Background(), w)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}
			fmt.Printf("Created watch %s.\n", created.ID)
			return printWatchDetail(created)
		},
	}

	cmd.Flags().StringVar(&watchName, "name", "", "display name")
	cmd.Flags().StringVar(&watchQuery, "query", "", "product search query")
	cmd.Flags().StringSliceVar(&watchPlatforms, "platforms", nil, "restrict refreshes to these platforms")
	cmd.Flags().Float64Var(&watchMaxPrice, "max-price", 0, "alert threshold price")
	cmd.Flags().BoolVar(&watchStrict, "strict", false, "strict quantity matching")

	return cmd
}

func watchEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "enable <id>",
		Short:   "Enable a watch",
		Args:    cobra.ExactArgs(1),
		Example: `  bw watches enable abc123`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.SetWatchEnabled(context.Background(), args[0], true); err != nil {
				return err
			}
			fmt.Printf("Watch %s enabled.\n", args[0])
			return nil
		},
	}
}

func watchDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "disable <id>",
		Short:   "Disable a watch",
		Args:    cobra.ExactArgs(1),
		Example: `  bw watches disable abc123`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.SetWatchEnabled(context.Background(), args[0], false); err != nil {
				return err
			}
			fmt.Printf("Watch %s disabled.\n", args[0])
			return nil
		},
	}
}

func watchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a watch",
		Args:    cobra.ExactArgs(1),
		Example: `  bw watches delete abc123`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.DeleteWatch(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Watch %s deleted.\n", args[0])
			return nil
		},
	}
}
