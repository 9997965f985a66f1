package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/basketwatch/basketwatch/internal/config"
	"github.com/basketwatch/basketwatch/internal/engine"
	"github.com/basketwatch/basketwatch/internal/source"
	"github.com/basketwatch/basketwatch/pkg/logger"
	domain "github.com/basketwatch/basketwatch/pkg/types"
)

func compareCommand() *cobra.Command {
	var (
		platforms []string
		strict    bool
		city      string
		fromFiles []string
	)

	cmd := &cobra.Command{
		Use:   "compare <query>",
		Short: "Run a one-off comparison without the server",
		Long: "Fans the query out to the sources in the config file, reconciles the " +
			"results, and prints the comparison as JSON. Nothing is persisted; no " +
			"database connection is needed. With --from-file the config file is not " +
			"read either; each platform=path pair becomes a snapshot source.",
		Example: `  basketd compare "tata salt 1kg"
  basketd compare "amul butter" --platforms zepto,blinkit --strict
  basketd compare "onion" --from-file zepto=zepto.json --from-file blinkit=blinkit.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var (
				runner *source.Runner
				opts   []engine.EngineOption
			)
			if len(fromFiles) > 0 {
				log := logger.NewWithWriter(os.Stderr, "info", "text")
				var err error
				runner, err = buildFileRunner(fromFiles, log)
				if err != nil {
					return err
				}
				opts = append(opts, engine.WithLogger(log))
			} else {
				cfg, err := config.Load(cfgFile)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}

				log := logger.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

				runner, err = buildRunner(cfg, log)
				if err != nil {
					return fmt.Errorf("building sources: %w", err)
				}
				opts = append(opts,
					engine.WithLogger(log),
					engine.WithMatchConfig(cfg.Matching.MatchConfig()),
					engine.WithLocation(cfg.Location.Location()),
				)
			}

			eng := engine.NewEngine(nil, runner, nil, opts...)

			var tags []domain.Platform
			for _, p := range platforms {
				tags = append(tags, domain.Platform(p))
			}

			var loc *domain.Location
			if city != "" {
				loc = &domain.Location{City: city}
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			result, err := eng.RunComparison(ctx, engine.CompareRequest{
				Query:     args[0],
				Platforms: tags,
				Location:  loc,
				Strict:    strict,
			})
			if err != nil {
				return fmt.Errorf("running comparison: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringSliceVar(&platforms, "platforms", nil, "restrict to these platforms")
	cmd.Flags().BoolVar(&strict, "strict", false, "strict quantity matching")
	cmd.Flags().StringVar(&city, "city", "", "delivery city stamped on the result")
	cmd.Flags().StringArrayVar(&fromFiles, "from-file", nil,
		"platform=path pair naming a local snapshot file (repeatable; skips the config file)")

	return cmd
}

// buildFileRunner turns platform=path pairs into snapshot-file sources.
func buildFileRunner(pairs []string, log *slog.Logger) (*source.Runner, error) {
	sources := make([]source.Source, 0, len(pairs))
	for _, pair := range pairs {
		platform, path, ok := strings.Cut(pair, "=")
		if !ok || platform == "" || path == "" {
			return nil, fmt.Errorf("invalid --from-file value %q, want platform=path", pair)
		}
		sources = append(sources, source.NewFileSource(domain.Platform(platform), path))
	}
	return source.NewRunner(sources, source.WithLogger(log)), nil
}

func init() {
	rootCmd.AddCommand(compareCommand())
}
