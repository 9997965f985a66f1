// Command dashgen generates the basketd Grafana dashboard and Prometheus
// rule files under the deploy directory.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/basketwatch/basketwatch/tools/dashgen/dashboards"
	"github.com/basketwatch/basketwatch/tools/dashgen/rules"
	"github.com/basketwatch/basketwatch/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by tools/dashgen. DO NOT EDIT.\n"

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, validateOnly bool) error {
	dashJSON, err := buildDashboardJSON()
	if err != nil {
		return err
	}
	recordingYAML, alertsYAML, err := buildRuleYAML()
	if err != nil {
		return err
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	if cfg.DashboardEnabled {
		path := filepath.Join(cfg.OutputDir, "grafana", "data", "basketd-overview.json")
		if err := writeFile(path, dashJSON); err != nil {
			return err
		}
	}
	if cfg.RulesEnabled {
		promDir := filepath.Join(cfg.OutputDir, "prometheus")
		if err := writeFile(filepath.Join(promDir, "basketd-recording-rules.yaml"), recordingYAML); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(promDir, "basketd-alerts.yaml"), alertsYAML); err != nil {
			return err
		}
	}
	return nil
}

// buildDashboardJSON builds and validates the overview dashboard, returning
// its marshaled JSON.
func buildDashboardJSON() ([]byte, error) {
	dash, err := dashboards.BuildOverview().Build()
	if err != nil {
		return nil, fmt.Errorf("build overview dashboard: %w", err)
	}

	result := validate.Dashboard(dash, KnownMetrics)
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if !result.Ok() {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		return nil, fmt.Errorf("dashboard validation failed with %d error(s)", len(result.Errors))
	}

	data, err := json.MarshalIndent(dash, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal dashboard: %w", err)
	}
	return append(data, '\n'), nil
}

// buildRuleYAML builds and validates the recording and alert rule CRs,
// returning their marshaled YAML with the generated-file header.
func buildRuleYAML() (recording, alerts []byte, err error) {
	var res validate.Result
	crs := []struct {
		name string
		cr   rules.PrometheusRule
	}{
		{"recording rules", rules.RecordingRules()},
		{"alert rules", rules.AlertRules()},
	}
	for _, c := range crs {
		for _, g := range c.cr.Spec.Groups {
			for _, rule := range g.Rules {
				name := rule.Record
				if name == "" {
					name = rule.Alert
				}
				validate.Expr(rule.Expr, fmt.Sprintf("%s %q", c.name, name), KnownMetrics, &res)
			}
		}
	}
	if !res.Ok() {
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		return nil, nil, fmt.Errorf("rule validation failed with %d error(s)", len(res.Errors))
	}

	recording, err = marshalRules(crs[0].cr)
	if err != nil {
		return nil, nil, err
	}
	alerts, err = marshalRules(crs[1].cr)
	if err != nil {
		return nil, nil, err
	}
	return recording, alerts, nil
}

func marshalRules(cr rules.PrometheusRule) ([]byte, error) {
	data, err := yaml.Marshal(cr)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", cr.Metadata.Name, err)
	}
	return append([]byte(generatedHeader), data...), nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
