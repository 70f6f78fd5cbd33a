package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/sobooked/storefront/internal/models"
)

// Books fetches the full catalog. No auth. The endpoint has returned both a
// bare array and a {books: [...]} wrapper across revisions; both decode.
func (c *Client) Books(ctx context.Context) ([]models.Book, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/getBooks", nil, "")
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := decodeRaw(resp)
	if err != nil {
		return nil, err
	}

	var books []models.Book
	if err := json.Unmarshal(raw, &books); err == nil {
		return books, nil
	}
	var wrapped struct {
		Books []models.Book `json:"books"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return wrapped.Books, nil
}

// AddBook posts a new listing as multipart: a "book" part with the JSON
// record and a "file" part with the cover image. The server requires the
// file part even when no image was chosen, so an empty empty.png part is
// sent in that case.
func (c *Client) AddBook(ctx context.Context, book models.Book, image []byte) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	recordJSON, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("encode book: %w", err)
	}
	if err := w.WriteField("book", string(recordJSON)); err != nil {
		return fmt.Errorf("write book part: %w", err)
	}

	filename := "cover.jpg"
	if len(image) == 0 {
		filename = "empty.png"
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("write file part: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return fmt.Errorf("write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/add", &buf, "")
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// DeleteBook removes a listing. Admin only; the server enforces it.
func (c *Client) DeleteBook(ctx context.Context, token string, bookID uint) error {
	path := "/admin/books/deleteBook/" + strconv.FormatUint(uint64(bookID), 10)
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, token)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// TrackActivity reports a view event. Callers treat it as fire-and-forget;
// the error is only for logging.
func (c *Client) TrackActivity(ctx context.Context, token string, ev models.Activity) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/user-activity/save", bytes.NewReader(body), token)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
