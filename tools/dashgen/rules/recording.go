package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "basketd-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "basketd-recording",
					Rules: []Rule{
						{
							Record: "basketd:http_requests:rate5m",
							Expr:   `sum(rate(basketd_http_requests_total[5m]))`,
						},
						{
							Record: "basketd:http_errors:rate5m",
							Expr:   `sum(rate(basketd_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "basketd:source_records:rate5m",
							Expr:   `sum(rate(basketd_source_records_total[5m])) by (platform)`,
						},
						{
							Record: "basketd:source_errors:rate5m",
							Expr:   `sum(rate(basketd_source_errors_total[5m])) by (platform)`,
						},
					},
				},
			},
		},
	}
}
