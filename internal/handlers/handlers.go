// Package handlers is the storefront's HTTP surface. Handlers hold their
// dependencies as struct fields and translate between the route layer and
// the catalog/cart/checkout components.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sobooked/storefront/internal/middleware"
	"github.com/sobooked/storefront/internal/session"
	"github.com/sobooked/storefront/internal/upstream"
)

// Sessions is the full session store surface handlers need.
type Sessions interface {
	Load() (session.Session, error)
	Save(session.Session) error
	Clear() error
}

// upstreamHTTPError maps client errors onto the response. A 403 from any
// authenticated endpoint means the session is gone: the stored token is
// cleared and the caller is sent back to the login route.
func upstreamHTTPError(sessions Sessions, log *slog.Logger, err error) error {
	if errors.Is(err, upstream.ErrSessionExpired) {
		if cerr := sessions.Clear(); cerr != nil {
			log.Error("clear session", "error", cerr)
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "Session expired. Please log in again.")
	}
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return echo.NewHTTPError(apiErr.Status, apiErr.Message)
	}
	return echo.NewHTTPError(http.StatusBadGateway, err.Error())
}

func sessionFrom(c echo.Context) (session.Session, bool) {
	return middleware.SessionFrom(c)
}

func token(c echo.Context) string {
	sess, ok := sessionFrom(c)
	if !ok {
		return ""
	}
	return sess.JWT
}
