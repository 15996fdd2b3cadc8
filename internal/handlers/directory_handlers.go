package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"leaseadmin/internal/common"
	"leaseadmin/internal/services"
)

type DirectoryHandler struct {
	directory services.DirectoryService
}

func NewDirectoryHandler(directory services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// Users handles GET /v1/users
func (h *DirectoryHandler) Users(c echo.Context) error {
	page, perPage := common.ParsePage(c.QueryParam("page"), c.QueryParam("per_page"))

	result, err := h.directory.Users(c.Request().Context(), page, perPage)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"users":       result.Records,
		"currentPage": result.CurrentPage,
		"totalPages":  result.TotalPages,
		"total":       result.Total,
	})
}

// User handles GET /v1/users/:id
func (h *DirectoryHandler) User(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	user, err := h.directory.User(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUser handles POST /v1/users
func (h *DirectoryHandler) CreateUser(c echo.Context) error {
	var payload map[string]any
	if err := c.Bind(&payload); err != nil || len(payload) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	created, err := h.directory.CreateUser(c.Request().Context(), payload)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateUser handles PUT /v1/users/:id
func (h *DirectoryHandler) UpdateUser(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var payload map[string]any
	if err := c.Bind(&payload); err != nil || len(payload) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	updated, err := h.directory.UpdateUser(c.Request().Context(), id, payload)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteUser handles DELETE /v1/users/:id
func (h *DirectoryHandler) DeleteUser(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.directory.DeleteUser(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Roles handles GET /v1/roles
func (h *DirectoryHandler) Roles(c echo.Context) error {
	roles, err := h.directory.Roles(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"roles": roles})
}

// CreateRole handles POST /v1/roles
func (h *DirectoryHandler) CreateRole(c echo.Context) error {
	var payload map[string]any
	if err := c.Bind(&payload); err != nil || len(payload) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	created, err := h.directory.CreateRole(c.Request().Context(), payload)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateRole handles PUT /v1/roles/:id
func (h *DirectoryHandler) UpdateRole(c echo.Context) error {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var payload map[string]any
	if err := c.Bind(&payload); err != nil || len(payload) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	updated, err := h.directory.UpdateRole(c.Request().Context(), id, payload)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Permissions handles GET /v1/permissions
func (h *DirectoryHandler) Permissions(c echo.Context) error {
	permissions, err := h.directory.Permissions(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"permissions": permissions})
}
