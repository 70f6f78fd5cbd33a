package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sobooked/storefront/internal/catalog"
	"github.com/sobooked/storefront/internal/events"
	"github.com/sobooked/storefront/internal/models"
)

// SavedAPI is the favorite-toggle slice of the upstream client.
type SavedAPI interface {
	SaveBook(ctx context.Context, token string, bookID uint) error
	UnsaveBook(ctx context.Context, token string, bookID uint) error
	TrackActivity(ctx context.Context, token string, ev models.Activity) error
}

type CatalogHandler struct {
	Store    *catalog.Store
	API      SavedAPI
	Sessions Sessions
	Producer *events.Producer
	Log      *slog.Logger
}

type catalogResponse struct {
	Books      []models.Book `json:"books"`
	Cities     []string      `json:"cities"`
	SavedBooks []uint        `json:"savedBooks,omitempty"`
}

// ListBooks serves the browse view: the filtered catalog, the city list
// and, for authenticated users, the saved-book ids.
func (h *CatalogHandler) ListBooks(c echo.Context) error {
	city := c.QueryParam("city")
	if city == "" {
		city = catalog.AllCities
	}

	books := h.Store.Filter(city, c.QueryParam("q"))
	if category := c.QueryParam("category"); category != "" && category != "all" {
		kept := books[:0]
		for _, b := range books {
			if b.Category == category {
				kept = append(kept, b)
			}
		}
		books = kept
	}

	resp := catalogResponse{Books: books, Cities: h.Store.Cities()}
	if _, ok := sessionFrom(c); ok {
		resp.SavedBooks = h.Store.SavedIDs()
	}
	return c.JSON(http.StatusOK, resp)
}

type bookResponse struct {
	models.Book
	Saved bool `json:"saved"`
}

// GetBook serves the detail view by slug and reports the view as a
// fire-and-forget activity event.
func (h *CatalogHandler) GetBook(c echo.Context) error {
	book, ok := h.Store.BySlug(c.Param("bookName"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "book not found")
	}

	h.trackView(c, book)

	return c.JSON(http.StatusOK, bookResponse{Book: book, Saved: h.Store.IsSaved(book.ID)})
}

// trackView reports the view upstream and to the activity stream. Both are
// fire-and-forget: a lost event never blocks or fails the page.
func (h *CatalogHandler) trackView(c echo.Context, book models.Book) {
	ev := models.Activity{
		EventID:  uuid.NewString(),
		Type:     "book_viewed",
		BookID:   book.ID,
		BookName: book.Name,
		City:     book.City,
	}
	tok := token(c)

	ctx := context.WithoutCancel(c.Request().Context())
	go func() {
		if err := h.API.TrackActivity(ctx, tok, ev); err != nil {
			h.Log.Warn("track activity", "book_id", book.ID, "error", err)
		}
		events.Emit(ctx, h.Producer, h.Log, strconv.FormatUint(uint64(book.ID), 10), ev)
	}()
}

// SaveBook bookmarks a catalog entry; the local set updates only after the
// server confirmed.
func (h *CatalogHandler) SaveBook(c echo.Context) error {
	return h.toggleSaved(c, true)
}

func (h *CatalogHandler) UnsaveBook(c echo.Context) error {
	return h.toggleSaved(c, false)
}

func (h *CatalogHandler) toggleSaved(c echo.Context, saved bool) error {
	bookID, err := parseBookID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	ctx := c.Request().Context()
	if saved {
		err = h.API.SaveBook(ctx, token(c), bookID)
	} else {
		err = h.API.UnsaveBook(ctx, token(c), bookID)
	}
	if err != nil {
		return upstreamHTTPError(h.Sessions, h.Log, err)
	}

	h.Store.SetSaved(bookID, saved)
	return c.JSON(http.StatusOK, map[string]any{"bookId": bookID, "saved": saved})
}

// RefreshSaved re-reads the saved set, used right after login.
func (h *CatalogHandler) RefreshSaved(c echo.Context) error {
	h.Store.RefreshSaved(c.Request().Context(), token(c))
	return c.JSON(http.StatusOK, map[string]any{"savedBooks": h.Store.SavedIDs()})
}

func parseBookID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("book id must be positive")
	}
	return uint(id), nil
}
