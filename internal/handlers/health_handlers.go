package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"leaseadmin/internal/caching"
)

type HealthHandler struct {
	cache caching.CacheService
}

func NewHealthHandler(cache caching.CacheService) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Live handles GET /health
func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready; it fails when redis is unusable since
// sessions and guards depend on it.
func (h *HealthHandler) Ready(c echo.Context) error {
	key := caching.Key("health", "probe")
	if err := h.cache.Set(c.Request().Context(), key, time.Now().Format(time.RFC3339), time.Minute); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "cache unavailable")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
