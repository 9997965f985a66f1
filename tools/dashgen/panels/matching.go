package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// MatchingLatency returns a timeseries panel showing the p95 matching
// pass duration.
func MatchingLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Matching Latency (p95)").
		Description("95th percentile reconciliation pass duration").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(basketd_matching_duration_seconds_bucket{job="basketd"}[5m])) by (le))`,
			"p95",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// MatchRate returns a timeseries panel comparing matched against
// unmatched group rates.
func MatchRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Matched vs Unmatched Groups").
		Description("Product groups produced per second, split by cross-platform match").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`sum(rate(basketd_matched_groups_total{job="basketd"}[5m]))`,
			"matched", "A",
		)).
		WithTarget(PromQuery(
			`sum(rate(basketd_unmatched_groups_total{job="basketd"}[5m]))`,
			"unmatched", "B",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// DedupeMerges returns a timeseries panel showing the within-platform
// duplicate merge rate.
func DedupeMerges() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Dedupe Merges").
		Description("Duplicate product groups collapsed per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`sum(rate(basketd_dedupe_merges_total{job="basketd"}[5m]))`,
			"merges/s", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SimilarityDistribution returns a bar gauge panel showing the
// distribution of cross-platform similarity scores.
func SimilarityDistribution() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Similarity Distribution").
		Description("Distribution of accepted match similarity scores (0-1)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(FullWidth).
		WithTarget(PromQuery(
			`sum(increase(basketd_similarity_distribution_bucket{job="basketd"}[1h])) by (le)`,
			"{{le}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
