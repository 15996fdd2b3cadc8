package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Permission titles the route groups are gated on.
const (
	PermLeaseRequestsView   = "View Lease Requests"
	PermLeaseRequestsDecide = "Decide Lease Requests"
	PermPropertiesManage    = "Manage Properties"
	PermRatesManage         = "Manage Rates"
	PermDirectoryManage     = "Manage Users"
)

// RequirePermission gates a route on the session's permission snapshot.
// Must run after Auth.
func RequirePermission(title string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := SessionFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "no session")
			}
			if !sess.HasPermission(title) {
				return echo.NewHTTPError(http.StatusForbidden, "missing permission: "+title)
			}
			return next(c)
		}
	}
}
