package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"leaseadmin/internal/middleware"
	"leaseadmin/internal/session"
)

type AuthHandler struct {
	sessions *session.Manager
}

func NewAuthHandler(sessions *session.Manager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	sess, token, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":    sess.UserID,
			"email": sess.Email,
			"name":  sess.Name,
		},
		"roles":       sess.Roles,
		"permissions": sess.Permissions,
	})
}

// Me handles GET /v1/me
func (h *AuthHandler) Me(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":    sess.UserID,
			"email": sess.Email,
			"name":  sess.Name,
		},
		"roles":       sess.Roles,
		"permissions": sess.Permissions,
	})
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	if err := h.sessions.Logout(c.Request().Context(), sess.ID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
