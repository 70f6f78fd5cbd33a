package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sobooked/storefront/internal/catalog"
	"github.com/sobooked/storefront/internal/models"
	"github.com/sobooked/storefront/internal/session"
)

type fakeSessions struct {
	sess    session.Session
	absent  bool
	cleared bool
	saved   []session.Session
}

func (f *fakeSessions) Load() (session.Session, error) {
	if f.absent || f.cleared {
		return session.Session{}, session.ErrNoSession
	}
	return f.sess, nil
}

func (f *fakeSessions) Save(s session.Session) error {
	f.saved = append(f.saved, s)
	f.sess = s
	f.absent = false
	f.cleared = false
	return nil
}

func (f *fakeSessions) Clear() error {
	f.cleared = true
	return nil
}

type fakeCatalogAPI struct {
	books    []models.Book
	saved    []models.SavedBook
	toggles  []string
	tracked  []models.Activity
	saveErr  error
	trackErr error
}

func (f *fakeCatalogAPI) Books(ctx context.Context) ([]models.Book, error) { return f.books, nil }

func (f *fakeCatalogAPI) SavedBooks(ctx context.Context, token string) ([]models.SavedBook, error) {
	return f.saved, nil
}

func (f *fakeCatalogAPI) SaveBook(ctx context.Context, token string, bookID uint) error {
	f.toggles = append(f.toggles, "save")
	return f.saveErr
}

func (f *fakeCatalogAPI) UnsaveBook(ctx context.Context, token string, bookID uint) error {
	f.toggles = append(f.toggles, "unsave")
	return f.saveErr
}

func (f *fakeCatalogAPI) TrackActivity(ctx context.Context, token string, ev models.Activity) error {
	f.tracked = append(f.tracked, ev)
	return f.trackErr
}

func loadedStore(t *testing.T, api *fakeCatalogAPI) *catalog.Store {
	t.Helper()
	s := catalog.New(api, slog.Default())
	s.Load(context.Background())
	return s
}

// newContext builds an echo context the way the framework would, with the
// session pre-resolved when one exists.
func newContext(t *testing.T, method, target string, body io.Reader, sess *session.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set("session", *sess)
	}
	return c, rec
}

func jsonBody(t *testing.T, s string) io.Reader {
	t.Helper()
	return strings.NewReader(s)
}

func requireHTTPError(t *testing.T, err error, wantCode int) *echo.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	require.Equal(t, wantCode, he.Code)
	return he
}
