package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sobooked/storefront/internal/models"
)

// SavedBooks fetches the caller's favorite associations.
func (c *Client) SavedBooks(ctx context.Context, token string) ([]models.SavedBook, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/saved-books", nil, token)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var saved []models.SavedBook
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		return nil, fmt.Errorf("decode saved books: %w", err)
	}
	return saved, nil
}

// SaveBook bookmarks a catalog entry for the caller.
func (c *Client) SaveBook(ctx context.Context, token string, bookID uint) error {
	return c.toggleSaved(ctx, token, "save", bookID)
}

// UnsaveBook removes the bookmark.
func (c *Client) UnsaveBook(ctx context.Context, token string, bookID uint) error {
	return c.toggleSaved(ctx, token, "unsave", bookID)
}

func (c *Client) toggleSaved(ctx context.Context, token, action string, bookID uint) error {
	q := url.Values{}
	q.Set("bookId", strconv.FormatUint(uint64(bookID), 10))
	req, err := c.newRequest(ctx, http.MethodPost, "/saved-book/"+action+"?"+q.Encode(), nil, token)
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
