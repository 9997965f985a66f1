// Package middleware provides Echo middleware for basketwatch.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/basketwatch/basketwatch/internal/metrics"
)

// probeGauges maps operational endpoints to the 0/1 gauge they drive.
// Requests to these paths (and /metrics scrapes, which carry no gauge)
// stay out of the HTTP histogram and counter, which probes would
// otherwise dominate.
var probeGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
	"/metrics": nil,
}

// Metrics returns Echo middleware that records request duration and
// status for API routes and flips the up/down gauges for probe routes.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			if gauge, probe := probeGauges[path]; probe {
				err := next(c)
				if gauge != nil {
					if status := c.Response().Status; status >= 200 && status < 300 {
						gauge.Set(1)
					} else {
						gauge.Set(0)
					}
				}
				return err
			}

			start := time.Now()
			err := next(c)

			labels := []string{
				c.Request().Method,
				path,
				strconv.Itoa(c.Response().Status),
			}
			metrics.HTTPRequestDuration.WithLabelValues(labels...).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()

			return err
		}
	}
}
