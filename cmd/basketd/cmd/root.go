// Package cmd implements the CLI commands for basketd.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "basketd",
	Short: "Compare grocery prices across quick-commerce platforms",
	Long: "basketd fans a product search out to quick-commerce platforms, " +
		"reconciles equivalent products across them, and tracks the best price " +
		"over time with scheduled watches and price-drop alerts.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
