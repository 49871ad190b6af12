package middleware

import (
	"context"
	"net/http"
	"time"

	"laundryops/internal/common"
	"laundryops/pkg/logger"
	"laundryops/pkg/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const RequestIDHeader = echo.HeaderXRequestID

// RequestContext assigns a request id, echoing a caller supplied one, and seeds the
// request logger with it.
func RequestContext(logg *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID := req.Header.Get(RequestIDHeader)
			if requestID == "" || len(requestID) > 128 {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(RequestIDHeader, requestID)

			ctx := context.WithValue(req.Context(), common.RequestIDKey, requestID)
			ctx = logg.WithRequestID(ctx, requestID)
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// AuditRequests logs every request once it completes and records it in the HTTP
// histogram. Mutations are logged at info, reads at debug.
func AuditRequests(logg *logger.Logger, m *metrics.HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			elapsed := time.Since(start)
			m.Observe(req.Method, route, status, elapsed)

			fields := map[string]any{
				"method":     req.Method,
				"route":      route,
				"path":       req.URL.Path,
				"status":     status,
				"latency_ms": elapsed.Milliseconds(),
			}
			if sub, ok := common.GetSubject(req.Context()); ok {
				fields["subject"] = sub
			}
			ctx := logg.WithFields(req.Context(), fields)

			switch {
			case status >= http.StatusInternalServerError:
				logg.Error(ctx, "request failed", err)
			case req.Method == http.MethodGet || req.Method == http.MethodHead:
				logg.Debug(ctx, "request served")
			default:
				logg.Info(ctx, "request served")
			}
			return nil
		}
	}
}
