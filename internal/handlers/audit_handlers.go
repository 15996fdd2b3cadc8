package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"leaseadmin/internal/models"
	"leaseadmin/internal/repositories"
)

type AuditHandler struct {
	audit repositories.AuditLogsRepository
}

func NewAuditHandler(audit repositories.AuditLogsRepository) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /v1/audit-logs
func (h *AuditHandler) List(c echo.Context) error {
	filters := &models.AuditLogFilters{}
	if v := c.QueryParam("actor"); v != "" {
		filters.Actor = &v
	}
	if v := c.QueryParam("action"); v != "" {
		filters.Action = &v
	}
	if v := c.QueryParam("entity"); v != "" {
		filters.Entity = &v
	}
	if v := c.QueryParam("entity_id"); v != "" {
		filters.EntityID = &v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		filters.Limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		filters.Offset = v
	}

	entries, err := h.audit.List(c.Request().Context(), filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "audit query failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"auditLogs": entries})
}

// Trail handles GET /v1/lease-requests/:id/audit
func (h *AuditHandler) Trail(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	limit := 0
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		limit = v
	}

	entries, err := h.audit.ListByEntity(c.Request().Context(), "lease_request", id, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "audit query failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"auditLogs": entries})
}
