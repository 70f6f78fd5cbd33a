package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sobooked/storefront/internal/models"
	"github.com/sobooked/storefront/internal/session"
)

func catalogBooks() []models.Book {
	return []models.Book{
		{ID: 1, Name: "Dune", Author: "Frank Herbert", Category: "Science Fiction", City: "Mumbai"},
		{ID: 2, Name: "Emma", Author: "Jane Austen", Category: "Fiction", City: "Delhi"},
		{ID: 3, Name: "Dubliners", Author: "James Joyce", Category: "Fiction", City: "Mumbai"},
	}
}

func newCatalogHandler(t *testing.T, api *fakeCatalogAPI, sessions *fakeSessions) *CatalogHandler {
	t.Helper()
	return &CatalogHandler{
		Store:    loadedStore(t, api),
		API:      api,
		Sessions: sessions,
		Log:      slog.Default(),
	}
}

func TestListBooks_CityAndQuery(t *testing.T) {
	t.Parallel()

	h := newCatalogHandler(t, &fakeCatalogAPI{books: catalogBooks()}, &fakeSessions{absent: true})

	c, rec := newContext(t, http.MethodGet, "/?city=Mumbai&q=du", nil, nil)
	require.NoError(t, h.ListBooks(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Books  []models.Book `json:"books"`
		Cities []string      `json:"cities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Books, 2)
	assert.Equal(t, "Dune", resp.Books[0].Name)
	assert.Equal(t, "Dubliners", resp.Books[1].Name)
	assert.Equal(t, []string{"All Cities", "Mumbai", "Delhi"}, resp.Cities)
}

func TestListBooks_CategoryNarrows(t *testing.T) {
	t.Parallel()

	h := newCatalogHandler(t, &fakeCatalogAPI{books: catalogBooks()}, &fakeSessions{absent: true})

	c, rec := newContext(t, http.MethodGet, "/?category=Fiction", nil, nil)
	require.NoError(t, h.ListBooks(c))

	var resp struct {
		Books []models.Book `json:"books"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Books, 2)
	assert.Equal(t, "Emma", resp.Books[0].Name)
}

func TestGetBook_BySlugTracksView(t *testing.T) {
	t.Parallel()

	api := &fakeCatalogAPI{books: catalogBooks()}
	h := newCatalogHandler(t, api, &fakeSessions{absent: true})

	c, rec := newContext(t, http.MethodGet, "/dune", nil, nil)
	c.SetParamNames("bookName")
	c.SetParamValues("dune")

	require.NoError(t, h.GetBook(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.ID)
	assert.False(t, resp.Saved)
}

func TestGetBook_UnknownSlug(t *testing.T) {
	t.Parallel()

	h := newCatalogHandler(t, &fakeCatalogAPI{books: catalogBooks()}, &fakeSessions{absent: true})

	c, _ := newContext(t, http.MethodGet, "/missing", nil, nil)
	c.SetParamNames("bookName")
	c.SetParamValues("missing")

	requireHTTPError(t, h.GetBook(c), http.StatusNotFound)
}

func TestToggleSaved_UpdatesLocalSetAfterConfirm(t *testing.T) {
	t.Parallel()

	api := &fakeCatalogAPI{books: catalogBooks()}
	sess := session.Session{JWT: "tok"}
	h := newCatalogHandler(t, api, &fakeSessions{sess: sess})

	c, _ := newContext(t, http.MethodPost, "/books/1/favorite", nil, &sess)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.SaveBook(c))
	assert.True(t, h.Store.IsSaved(1))

	c, _ = newContext(t, http.MethodDelete, "/books/1/favorite", nil, &sess)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.UnsaveBook(c))
	assert.False(t, h.Store.IsSaved(1))

	assert.Equal(t, []string{"save", "unsave"}, api.toggles)
}
