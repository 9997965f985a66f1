package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// FetchLatency returns a timeseries panel showing the p95 fetch latency
// per platform source.
func FetchLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Source Fetch Latency (p95)").
		Description("95th percentile fetch duration per platform").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(basketd_source_fetch_duration_seconds_bucket{job="basketd"}[5m])) by (platform, le))`,
			"{{platform}}",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RecordsRate returns a timeseries panel showing the rate of product
// records fetched per platform.
func RecordsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Records Fetched").
		Description("Product records fetched per second, per platform").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`sum(rate(basketd_source_records_total{job="basketd"}[5m])) by (platform)`,
			"{{platform}}",
			"A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SourceErrors returns a timeseries panel showing fetch errors per
// platform.
func SourceErrors() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Source Errors").
		Description("Failed platform fetches per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`sum(rate(basketd_source_errors_total{job="basketd"}[5m])) by (platform)`,
			"{{platform}}",
			"A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
