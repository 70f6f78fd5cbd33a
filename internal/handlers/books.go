package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sobooked/storefront/internal/bookform"
	"github.com/sobooked/storefront/internal/catalog"
	"github.com/sobooked/storefront/internal/imaging"
	"github.com/sobooked/storefront/internal/models"
)

// BooksAPI is the listing-mutation slice of the upstream client.
type BooksAPI interface {
	AddBook(ctx context.Context, book models.Book, image []byte) error
	DeleteBook(ctx context.Context, token string, bookID uint) error
}

type BooksHandler struct {
	API      BooksAPI
	Store    *catalog.Store
	Sessions Sessions
	Log      *slog.Logger
}

// AddBook accepts the submission form as multipart: the book fields plus
// an optional cover image, which is compressed and normalized to jpeg
// before upload. Without an image the upstream still receives an empty
// placeholder file part.
func (h *BooksHandler) AddBook(c echo.Context) error {
	form, err := bindForm(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := form.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var image []byte
	if fh, err := c.FormFile("file"); err == nil && fh.Size > 0 {
		f, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "could not read image")
		}
		raw, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "could not read image")
		}
		image, err = imaging.Compress(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unsupported image")
		}
	}

	record := form.Record()
	if err := h.API.AddBook(c.Request().Context(), record, image); err != nil {
		return upstreamHTTPError(h.Sessions, h.Log, err)
	}

	h.reload(c)
	return c.JSON(http.StatusCreated, map[string]string{
		"message": record.Name + " added successfully!",
	})
}

// EditBook serves the record behind the admin edit form.
func (h *BooksHandler) EditBook(c echo.Context) error {
	bookID, err := parseBookID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	for _, b := range h.Store.Books() {
		if b.ID == bookID {
			return c.JSON(http.StatusOK, b)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "book not found")
}

// DeleteBook removes a listing. Admin gating happens in the route
// middleware; the upstream enforces it again.
func (h *BooksHandler) DeleteBook(c echo.Context) error {
	bookID, err := parseBookID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	if err := h.API.DeleteBook(c.Request().Context(), token(c), bookID); err != nil {
		return upstreamHTTPError(h.Sessions, h.Log, err)
	}

	h.reload(c)
	return c.NoContent(http.StatusNoContent)
}

// reload refetches the catalog in the background after a mutation so the
// next browse reflects it.
func (h *BooksHandler) reload(c echo.Context) {
	ctx := context.WithoutCancel(c.Request().Context())
	go h.Store.Load(ctx)
}

func bindForm(c echo.Context) (*bookform.Form, error) {
	form := &bookform.Form{
		Name:        c.FormValue("name"),
		Author:      c.FormValue("author"),
		Category:    c.FormValue("category"),
		City:        c.FormValue("city"),
		Description: c.FormValue("description"),
		PhoneNumber: c.FormValue("phoneNumber"),
	}

	var err error
	if form.BuyPrice, err = parsePrice(c.FormValue("buyPrice")); err != nil {
		return nil, errors.New("invalid buy price")
	}
	if form.RentalPrice, err = parsePrice(c.FormValue("rentalPrice")); err != nil {
		return nil, errors.New("invalid rental price")
	}
	return form, nil
}

func parsePrice(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, errors.New("invalid price")
	}
	return v, nil
}
