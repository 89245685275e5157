package router

import (
	"net/http"

	"github.com/deppfellow/surf-tools/internal/handler"
	"github.com/deppfellow/surf-tools/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerAPIRoutes registers the rate limited /api group.
func registerAPIRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	api := r.Group("/api", m.RateLimit.Limit())

	api.GET("/test-db", handler.Handle(h.TestDB.Handler, h.TestDB.Get, http.StatusOK, handler.NewTestDBRequest))
}
