package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/surf-tools/internal/middleware"
	"github.com/deppfellow/surf-tools/internal/server"
	"github.com/labstack/echo/v4"
)

// Health check names accepted in Observability.HealthChecks.Checks.
const (
	CheckDatabase = "database"
	CheckTables   = "tables"
)

// TableCounter reports row counts for the surf tables.
type TableCounter interface {
	TableCounts(ctx context.Context) (map[string]int64, error)
}

// HealthHandler serves /status for uptime monitors.
type HealthHandler struct {
	Handler
	tables TableCounter
}

func NewHealthHandler(s *server.Server, tables TableCounter) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		tables:  tables,
	}
}

// CheckHealth runs the configured dependency checks.
// It answers 200 when all pass and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]any{}
	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	cfg := h.server.Config.Observability.HealthChecks
	isHealthy := true

	if cfg.Enabled {
		for _, name := range cfg.Checks {
			checkStart := time.Now()
			result, err := h.runCheck(c.Request().Context(), name, cfg.Timeout)
			result["response_time"] = time.Since(checkStart).String()

			if err != nil {
				isHealthy = false
				result["status"] = "unhealthy"
				result["error"] = err.Error()

				logger.Error().Err(err).Str("check", name).Dur("response_time", time.Since(checkStart)).Msg("health check failed")
				h.recordFailure(name, err, time.Since(checkStart))
			} else {
				result["status"] = "healthy"
				logger.Debug().Str("check", name).Dur("response_time", time.Since(checkStart)).Msg("health check passed")
			}

			checks[name] = result
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

func (h *HealthHandler) runCheck(ctx context.Context, name string, timeout time.Duration) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := map[string]any{}

	switch name {
	case CheckDatabase:
		if h.server.DB == nil {
			return result, fmt.Errorf("database not configured")
		}
		// Pool traces reach New Relic through nrpgx5.
		return result, h.server.DB.Pool.Ping(ctx)

	case CheckTables:
		if h.tables == nil {
			return result, fmt.Errorf("table counts not available")
		}
		counts, err := h.tables.TableCounts(ctx)
		if err != nil {
			return result, err
		}
		result["rows"] = counts
		return result, nil

	default:
		return result, fmt.Errorf("unknown health check %q", name)
	}
}

func (h *HealthHandler) recordFailure(name string, err error, elapsed time.Duration) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":       name,
		"operation":        "health_check",
		"error_type":       name + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
