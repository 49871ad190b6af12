package handlers

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Version is reported by the health endpoints.
const Version = "1.0.0"

// Pinger is anything whose connectivity can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	critical map[string]Pinger
	optional map[string]Pinger
	started  time.Time
	timeout  time.Duration
}

// NewHealthHandlers takes the database as the only critical dependency. Optional
// dependencies degrade the report but never fail readiness.
func NewHealthHandlers(db Pinger, optional map[string]Pinger) *HealthHandlers {
	if optional == nil {
		optional = map[string]Pinger{}
	}
	return &HealthHandlers{
		critical: map[string]Pinger{"database": db},
		optional: optional,
		started:  time.Now(),
		timeout:  2 * time.Second,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

func (h *HealthHandlers) probe(ctx context.Context, checks map[string]Pinger, into map[string]string) bool {
	healthy := true
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ctx, cancel := context.WithTimeout(ctx, h.timeout)
		err := checks[name].Ping(ctx)
		cancel()
		if err != nil {
			into[name] = "unhealthy"
			healthy = false
			continue
		}
		into[name] = "healthy"
	}
	return healthy
}

// HealthCheck reports every dependency. It answers 200 even when degraded so that
// load balancers keep routing while an optional dependency is down.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Version:    Version,
		Goroutines: runtime.NumGoroutine(),
	}

	criticalOK := h.probe(ctx, h.critical, health.Services)
	optionalOK := h.probe(ctx, h.optional, health.Services)
	switch {
	case !criticalOK:
		health.Status = "unhealthy"
	case !optionalOK:
		health.Status = "degraded"
	}
	return c.JSON(http.StatusOK, health)
}

// ReadinessCheck fails only on critical dependencies. Optional ones are reported.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	services := make(map[string]string)
	ready := h.probe(c.Request().Context(), h.critical, services)
	h.probe(c.Request().Context(), h.optional, services)
	if !ready {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":   "not_ready",
			"services": services,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ready",
		"services": services,
	})
}

// LivenessCheck determines if the application is running (basic liveness probe)
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
