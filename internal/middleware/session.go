package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sobooked/storefront/internal/session"
)

const ctxSession = "session"

// Sessions is the read side of the session store.
type Sessions interface {
	Load() (session.Session, error)
}

// WithSession resolves the stored token once per request and puts the
// typed record in the echo context, so handlers never re-parse the blob.
func WithSession(store Sessions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := store.Load()
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					return echo.NewHTTPError(http.StatusInternalServerError, "session store unavailable")
				}
				return next(c)
			}
			c.Set(ctxSession, sess)
			return next(c)
		}
	}
}

// RequireSession rejects unauthenticated requests.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := SessionFrom(c); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}
		return next(c)
	}
}

// RequireAdmin gates admin actions on the role in the session. The check
// is advisory; the upstream API is the authority and enforces it again.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, ok := SessionFrom(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}
		if !sess.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}

// SessionFrom returns the session resolved by WithSession, if any.
func SessionFrom(c echo.Context) (session.Session, bool) {
	sess, ok := c.Get(ctxSession).(session.Session)
	return sess, ok
}
