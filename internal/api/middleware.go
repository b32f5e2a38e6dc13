package api

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// slowRequestThreshold is the duration above which requests are logged at
// WARN level. Model-backed endpoints routinely exceed it; the log level
// makes them easy to spot without tracing.
const slowRequestThreshold = 100 * time.Millisecond

// RequestLogger returns middleware that logs every request with timing.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			attrs := []any{
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", duration.Milliseconds(),
			}

			switch {
			case err != nil:
				attrs = append(attrs, "error", err.Error())
				logger.Error("request failed", attrs...)
			case duration > slowRequestThreshold:
				logger.Warn("slow request", attrs...)
			default:
				logger.Debug("request completed", attrs...)
			}

			return err
		}
	}
}
