package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sobooked/storefront/internal/catalog"
	"github.com/sobooked/storefront/internal/session"
)

// AuthAPI is the credential slice of the upstream client.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, name, email, password string) (string, error)
}

type AuthHandler struct {
	API      AuthAPI
	Sessions Sessions
	Store    *catalog.Store
	Log      *slog.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials upstream and persists the typed session
// record. The saved-book set is refreshed right after, so favorite state
// appears without a reload.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	raw, err := h.API.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return upstreamHTTPError(h.Sessions, h.Log, err)
	}

	sess, err := session.Decode(raw)
	if err != nil {
		h.Log.Error("decode login response", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "unexpected login response")
	}
	if err := h.Sessions.Save(sess); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not persist session")
	}

	h.Store.RefreshSaved(c.Request().Context(), sess.JWT)

	return c.JSON(http.StatusOK, map[string]any{"role": sess.Role, "admin": sess.IsAdmin()})
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers upstream. No session is created; the server answers
// with a success message and the user logs in afterwards.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	msg, err := h.API.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return upstreamHTTPError(h.Sessions, h.Log, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}

// Logout destroys the local session record. The upstream token is not
// revoked; it simply stops being presented.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Sessions.Clear(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not clear session")
	}
	return c.NoContent(http.StatusNoContent)
}
