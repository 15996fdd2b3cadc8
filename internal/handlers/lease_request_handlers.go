package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"leaseadmin/internal/common"
	"leaseadmin/internal/services"
	"leaseadmin/internal/status"
)

type LeaseRequestHandler struct {
	requests    services.LeaseRequestService
	attachments services.AttachmentService
}

func NewLeaseRequestHandler(requests services.LeaseRequestService, attachments services.AttachmentService) *LeaseRequestHandler {
	return &LeaseRequestHandler{requests: requests, attachments: attachments}
}

// List handles GET /v1/lease-requests?screen=&tab=&page=&per_page=
func (h *LeaseRequestHandler) List(c echo.Context) error {
	screen := status.ScreenMain
	if raw := c.QueryParam("screen"); raw != "" {
		parsed, ok := status.ParseScreen(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown screen")
		}
		screen = parsed
	}

	tab := status.All
	if raw := c.QueryParam("tab"); raw != "" {
		tab = status.Status(raw)
		if tab != status.All && !tab.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown tab")
		}
	}

	page, perPage := common.ParsePage(c.QueryParam("page"), c.QueryParam("per_page"))

	result, err := h.requests.List(c.Request().Context(), screen, tab, page, perPage)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// Get handles GET /v1/lease-requests/:id
func (h *LeaseRequestHandler) Get(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	tenant, raw, err := h.requests.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"tenant": tenant, "raw": raw})
}

// Checking handles GET /v1/lease-requests/:id/checking
func (h *LeaseRequestHandler) Checking(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	detail, err := h.attachments.Detail(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Approve handles PUT /v1/lease-requests/:id/approve
func (h *LeaseRequestHandler) Approve(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	raw, err := h.requests.Approve(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, raw)
}

// Reject handles PUT /v1/lease-requests/:id/reject
func (h *LeaseRequestHandler) Reject(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	raw, err := h.requests.Reject(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, raw)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus handles PUT /v1/lease-requests/:id/status
func (h *LeaseRequestHandler) SetStatus(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	raw, err := h.requests.SetStatus(c.Request().Context(), id, status.Status(req.Status))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, raw)
}

// ApproveAttachment handles PUT /v1/lease-requests/:id/attachments/:name/approve
func (h *LeaseRequestHandler) ApproveAttachment(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	detail, err := h.attachments.ApproveGroup(c.Request().Context(), id, c.Param("name"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

type rejectAttachmentRequest struct {
	Note string `json:"note"`
}

// RejectAttachment handles PUT /v1/lease-requests/:id/attachments/:name/reject
func (h *LeaseRequestHandler) RejectAttachment(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req rejectAttachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	detail, err := h.attachments.RejectGroup(c.Request().Context(), id, c.Param("name"), req.Note)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}
