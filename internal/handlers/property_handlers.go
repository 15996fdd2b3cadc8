package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"leaseadmin/internal/common"
	"leaseadmin/internal/leaseapi"
	"leaseadmin/internal/models"
	"leaseadmin/internal/services"
)

type PropertyHandler struct {
	properties services.PropertyService
}

func NewPropertyHandler(properties services.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

// List handles GET /v1/properties
func (h *PropertyHandler) List(c echo.Context) error {
	page, perPage := common.ParsePage(c.QueryParam("page"), c.QueryParam("per_page"))

	q := leaseapi.PropertyQuery{
		Page:         page,
		PerPage:      perPage,
		OrderBy:      c.QueryParam("orderby"),
		Order:        c.QueryParam("order"),
		Search:       c.QueryParam("q"),
		Relationship: c.QueryParam("relationship"),
	}
	if v, err := strconv.ParseInt(c.QueryParam("type_id"), 10, 64); err == nil {
		q.TypeID = v
	}
	if v, err := strconv.ParseInt(c.QueryParam("product_type_id"), 10, 64); err == nil {
		q.ProductTypeID = v
	}
	if v, err := strconv.ParseInt(c.QueryParam("relationship_id"), 10, 64); err == nil {
		q.RelationshipID = v
	}

	result, err := h.properties.List(c.Request().Context(), q)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"properties":  result.Records,
		"currentPage": result.CurrentPage,
		"totalPages":  result.TotalPages,
		"total":       result.Total,
	})
}

// Get handles GET /v1/properties/:id
func (h *PropertyHandler) Get(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	property, err := h.properties.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, property)
}

// Create handles POST /v1/properties
func (h *PropertyHandler) Create(c echo.Context) error {
	var payload map[string]any
	if err := c.Bind(&payload); err != nil || len(payload) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	created, err := h.properties.Create(c.Request().Context(), payload)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /v1/properties/:id
func (h *PropertyHandler) Update(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var payload map[string]any
	if err := c.Bind(&payload); err != nil || len(payload) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	updated, err := h.properties.Update(c.Request().Context(), id, payload)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateRate handles PUT /v1/properties/:id/rate
func (h *PropertyHandler) UpdateRate(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req models.RateInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.properties.UpdateRate(c.Request().Context(), id, req.Rate); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AnnualRates handles GET /v1/properties/:id/annual-rates
func (h *PropertyHandler) AnnualRates(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	rates, err := h.properties.AnnualRates(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"annualRates": rates})
}

// ListAnnualRates handles GET /v1/annual-rates
func (h *PropertyHandler) ListAnnualRates(c echo.Context) error {
	page, perPage := common.ParsePage(c.QueryParam("page"), c.QueryParam("per_page"))

	result, err := h.properties.ListAnnualRates(c.Request().Context(), page, perPage)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"annualRates": result.Records,
		"currentPage": result.CurrentPage,
		"totalPages":  result.TotalPages,
		"total":       result.Total,
	})
}

// CreateAnnualRate handles POST /v1/annual-rates
func (h *PropertyHandler) CreateAnnualRate(c echo.Context) error {
	var req models.AnnualRateInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	created, err := h.properties.CreateAnnualRate(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// ApproveAnnualRate handles PUT /v1/annual-rates/:id/approve
func (h *PropertyHandler) ApproveAnnualRate(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.properties.ApproveAnnualRate(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RejectAnnualRate handles PUT /v1/annual-rates/:id/reject
func (h *PropertyHandler) RejectAnnualRate(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.properties.RejectAnnualRate(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
