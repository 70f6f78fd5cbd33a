package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// PlaceOrder creates a server-side order over the caller's cart and returns
// the processor client secret authorizing its payment.
func (c *Client) PlaceOrder(ctx context.Context, token string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/placeOrder", nil, token)
	if err != nil {
		return "", err
	}
	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode order: %w", err)
	}
	if out.ClientSecret == "" {
		return "", errors.New("no client secret received from the server")
	}
	return out.ClientSecret, nil
}

// ConfirmPayment tells the backend the processor has captured the payment.
func (c *Client) ConfirmPayment(ctx context.Context, token, paymentID string) error {
	q := url.Values{}
	q.Set("paymentId", paymentID)
	req, err := c.newRequest(ctx, http.MethodPost, "/pay?"+q.Encode(), nil, token)
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
