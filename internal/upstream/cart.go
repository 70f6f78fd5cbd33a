package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sobooked/storefront/internal/models"
)

// CartItems fetches the caller's cart. The endpoint has wrapped the list
// under "books" or "cartItems" across revisions; all three shapes decode.
func (c *Client) CartItems(ctx context.Context, token string) ([]models.CartItem, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/cart/getBooks", nil, token)
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

	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var wrapped struct {
		Books     []models.CartItem `json:"books"`
		CartItems []models.CartItem `json:"cartItems"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if wrapped.Books != nil {
		return wrapped.Books, nil
	}
	return wrapped.CartItems, nil
}

// AddToCart puts one book in the cart, renting or buying.
func (c *Client) AddToCart(ctx context.Context, token string, bookID uint, renting bool) error {
	q := url.Values{}
	q.Set("bookId", strconv.FormatUint(uint64(bookID), 10))
	q.Set("isRenting", strconv.FormatBool(renting))
	req, err := c.newRequest(ctx, http.MethodPost, "/cart/add?"+q.Encode(), nil, token)
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

// RemoveFromCart deletes one book from the cart. Form-encoded, not JSON;
// the endpoint predates the rest of the API.
func (c *Client) RemoveFromCart(ctx context.Context, token string, bookID uint) error {
	form := url.Values{}
	form.Set("bookId", strconv.FormatUint(uint64(bookID), 10))
	req, err := c.newRequest(ctx, http.MethodPost, "/cart/delete", strings.NewReader(form.Encode()), token)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
