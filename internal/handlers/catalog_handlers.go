package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"leaseadmin/internal/services"
)

type CatalogHandler struct {
	lookups services.LookupService
}

func NewCatalogHandler(lookups services.LookupService) *CatalogHandler {
	return &CatalogHandler{lookups: lookups}
}

// ProductTypes handles GET /v1/product-types
func (h *CatalogHandler) ProductTypes(c echo.Context) error {
	types, err := h.lookups.ProductTypes(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"productTypes": types})
}

// ServiceCategories handles GET /v1/service-categories
func (h *CatalogHandler) ServiceCategories(c echo.Context) error {
	categories, err := h.lookups.ServiceCategories(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"serviceCategories": categories})
}

// Blocks handles GET /v1/properties/blocks
func (h *CatalogHandler) Blocks(c echo.Context) error {
	blocks, err := h.lookups.Blocks(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"blocks": blocks})
}
