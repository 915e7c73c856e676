package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/secretmessage/internal/middleware"
	"github.com/deppfellow/secretmessage/internal/server"
	"github.com/labstack/echo/v4"
)

// dependencyCheck pings one backing service for /status.
//
// A failing critical check turns the whole report unhealthy (503); a failing
// non-critical one is only reported, since the service still works without it.
type dependencyCheck struct {
	name     string
	critical bool
	ping     func(ctx context.Context) error
}

// HealthHandler exposes the endpoint load balancers and uptime monitors use to
// verify the service is alive and its dependencies are reachable.
type HealthHandler struct {
	Handler
	checks  []dependencyCheck
	timeout time.Duration
}

// NewHealthHandler builds the checks enabled in observability.health_checks.
// The redis check is only registered when a redis client exists.
func NewHealthHandler(s *server.Server) *HealthHandler {
	hc := s.Config.Observability.HealthChecks

	var checks []dependencyCheck
	if hc.Enabled {
		if hc.Has("database") && s.DB != nil {
			checks = append(checks, dependencyCheck{
				name:     "database",
				critical: true,
				ping:     s.DB.Pool.Ping,
			})
		}
		if hc.Has("redis") && s.Redis != nil {
			checks = append(checks, dependencyCheck{
				name: "redis",
				ping: func(ctx context.Context) error {
					return s.Redis.Ping(ctx).Err()
				},
			})
		}
	}

	return &HealthHandler{
		Handler: NewHandler(s),
		checks:  checks,
		timeout: hc.Timeout,
	}
}

// CheckHealth returns system health status and dependency checks.
//
// It returns 200 when every critical check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{}, len(h.checks))
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true

	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		checkStart := time.Now()
		err := check.ping(ctx)
		elapsed := time.Since(checkStart)
		cancel()

		if err != nil {
			checks[check.name] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         err.Error(),
			}

			if check.critical {
				isHealthy = false
			}

			logger.Error().
				Err(err).
				Str("check", check.name).
				Dur("response_time", elapsed).
				Msg("health check failed")

			h.recordHealthCheckError(map[string]interface{}{
				"check_type":       check.name,
				"operation":        "health_check",
				"error_type":       check.name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
			continue
		}

		checks[check.name] = map[string]interface{}{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}

		logger.Debug().
			Str("check", check.name).
			Dur("response_time", elapsed).
			Msg("health check passed")
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) recordHealthCheckError(attrs map[string]interface{}) {
	if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
		h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
	}
}
