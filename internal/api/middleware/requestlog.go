package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// healthPaths are probe endpoints whose repeated successes are
// suppressed from the request log. Kubelet probes would otherwise
// dominate the log at one line every few seconds.
var healthPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs one structured line per
// request. A request ID is generated when the client did not send one
// and is echoed back in the response header and the echo context.
//
// Probe paths get special treatment: the first success and every
// failure are logged, repeated successes are not. Failures log at WARN.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var (
		mu          sync.Mutex
		lastProbeOK = map[string]bool{}
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status
			ok := status < 400

			if _, probe := healthPaths[path]; probe {
				mu.Lock()
				suppress := ok && lastProbeOK[path]
				lastProbeOK[path] = ok
				mu.Unlock()
				if suppress {
					return err
				}
			}

			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelWarn
			}
			log.Log(c.Request().Context(), level, "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return err
		}
	}
}
