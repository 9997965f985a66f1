// Package validate checks generated dashboards for PromQL errors and
// references to metrics that basketd does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"
)

// Result collects validation findings. Errors fail validation; warnings
// flag suspicious but non-fatal issues.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation passed.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Dashboard validates every query expression in the dashboard: each one must
// parse as PromQL, and every metric it selects must appear in known.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result
	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			for i := range p.RowPanel.Panels {
				validatePanel(&p.RowPanel.Panels[i], known, &res)
			}
		}
		if p.Panel != nil {
			validatePanel(p.Panel, known, &res)
		}
	}
	return res
}

func validatePanel(p *dashboard.Panel, known map[string]bool, res *Result) {
	title := "untitled"
	if p.Title != nil {
		title = *p.Title
	}
	if len(p.Targets) == 0 {
		res.warnf("panel %q has no query targets", title)
		return
	}
	for _, target := range p.Targets {
		expr, err := targetExpr(target)
		if err != nil {
			res.errorf("panel %q: %v", title, err)
			continue
		}
		if expr == "" {
			res.warnf("panel %q has a target with an empty expression", title)
			continue
		}
		Expr(expr, fmt.Sprintf("panel %q", title), known, res)
	}
}

// Expr parses a single PromQL expression and records an error for each
// selected metric not present in known. The where string names the
// expression's origin in messages.
func Expr(expr, where string, known map[string]bool, res *Result) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("%s: invalid PromQL %q: %v", where, expr, err)
		return
	}
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok {
			return nil
		}
		if vs.Name != "" && !metricKnown(vs.Name, known) {
			res.errorf("%s: unknown metric %q in %q", where, vs.Name, expr)
		}
		return nil
	})
}

// metricKnown checks a metric name against known, accounting for the
// series suffixes histograms and summaries expose.
func metricKnown(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

// targetExpr extracts the expr field from an arbitrary query target by
// round-tripping through JSON, which works for any datasource variant.
func targetExpr(target any) (string, error) {
	raw, err := json.Marshal(target)
	if err != nil {
		return "", fmt.Errorf("marshal target: %w", err)
	}
	var fields struct {
		Expr string `json:"expr"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", fmt.Errorf("decode target: %w", err)
	}
	return fields.Expr, nil
}
