package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"leaseadmin/internal/common"
	"leaseadmin/internal/session"
)

const sessionContextKey = "admin_session"

// Auth resolves the bearer JWT to its stored session and binds the
// upstream token plus actor identity to the request context.
func Auth(manager *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			sess, err := manager.Verify(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			c.Set(sessionContextKey, sess)
			ctx := common.WithAccessToken(c.Request().Context(), sess.Token)
			ctx = common.WithActor(ctx, sess.Email)
			ctx = common.WithSessionID(ctx, sess.ID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// SessionFrom returns the session Auth bound to this request.
func SessionFrom(c echo.Context) (*session.Session, bool) {
	sess, ok := c.Get(sessionContextKey).(*session.Session)
	return sess, ok
}
