package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"leaseadmin/internal/common"
	"leaseadmin/internal/leaseapi"
	"leaseadmin/internal/services"
)

// httpError maps a service failure onto the response the dashboard shows.
// Upstream errors keep their status; an unreachable upstream becomes 502.
func httpError(err error) error {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrEmptyNote):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrIllegalTransition):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrDuplicateAction):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrGroupNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotSupported):
		return echo.NewHTTPError(http.StatusNotImplemented, err.Error())
	}

	if apiErr, ok := leaseapi.AsAPIError(err); ok {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		return echo.NewHTTPError(status, common.ErrorResponse{
			Error:  apiErr.Message,
			Fields: apiErr.Fields,
		})
	}

	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
