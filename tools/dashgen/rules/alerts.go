package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// basketd operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "basketd-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "basketd-alerts",
					Rules: []Rule{
						{
							Alert: "BasketdDown",
							Expr:  `absent(up{job="basketd"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "basketd is down",
								"description": "The basketd job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "BasketdReadinessDown",
							Expr:  `basketd_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "basketd readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
							},
						},
						{
							Alert: "BasketdHighErrorRate",
							Expr:  `basketd:http_errors:rate5m / basketd:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on basketd",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "BasketdSourceErrors",
							Expr:  `basketd:source_errors:rate5m > 0.1`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Platform source errors detected",
								"description": "A platform source has been failing fetches at more than 0.1/s for 5 minutes.",
							},
						},
						{
							Alert: "BasketdAllSourcesFailing",
							Expr:  `sum(basketd:source_records:rate5m) == 0 and sum(basketd:source_errors:rate5m) > 0`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "No platform source is returning records",
								"description": "Every configured platform source has failed for 10 minutes; comparisons cannot run.",
							},
						},
						{
							Alert: "BasketdNotificationFailures",
							Expr:  `increase(basketd_notification_failures_total[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more price alert webhooks have failed to send.",
							},
						},
					},
				},
			},
		},
	}
}
