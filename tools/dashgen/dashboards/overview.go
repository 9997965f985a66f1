// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/basketwatch/basketwatch/tools/dashgen/panels"
)

// BuildOverview constructs the basketd Overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("basketd Overview").
		Uid("basketd-overview").
		Tags([]string{"basketd", "basketwatch"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.WatchRunsStat()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Sources.
	b.WithRow(dashboard.NewRowBuilder("Sources").
		WithPanel(panels.FetchLatency()).
		WithPanel(panels.RecordsRate()).
		WithPanel(panels.SourceErrors()))

	// Row 4: Matching.
	b.WithRow(dashboard.NewRowBuilder("Matching").
		WithPanel(panels.MatchingLatency()).
		WithPanel(panels.MatchRate()).
		WithPanel(panels.DedupeMerges()))

	// Row 5: Similarity.
	b.WithRow(dashboard.NewRowBuilder("Similarity").
		WithPanel(panels.SimilarityDistribution()))

	// Row 6: Alerts.
	b.WithRow(dashboard.NewRowBuilder("Alerts").
		WithPanel(panels.AlertsRate()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
