// Package payment talks to the hosted card processor. One client secret
// authorizes exactly one confirmation; the processor owns settlement.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Card is the raw card input collected by the payment form.
type Card struct {
	Number   string
	ExpMonth string
	ExpYear  string
	CVC      string
}

// DeclinedError carries the processor's own message so the user sees the
// decline reason verbatim and can retry with the cart unchanged.
type DeclinedError struct {
	Message string
}

func (e *DeclinedError) Error() string { return e.Message }

type Client struct {
	baseURL        string
	publishableKey string
	httpClient     *http.Client
}

func New(baseURL, publishableKey string) *Client {
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		publishableKey: publishableKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ConfirmCardPayment confirms the payment intent named by the client
// secret and returns the payment-intent id for the backend confirmation
// step. A status other than requires_capture counts as a decline: the
// order is configured for manual capture server-side.
func (c *Client) ConfirmCardPayment(ctx context.Context, clientSecret string, card Card) (string, error) {
	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("client_secret", clientSecret)
	form.Set("payment_method_data[type]", "card")
	form.Set("payment_method_data[card][number]", card.Number)
	form.Set("payment_method_data[card][exp_month]", card.ExpMonth)
	form.Set("payment_method_data[card][exp_year]", card.ExpYear)
	form.Set("payment_method_data[card][cvc]", card.CVC)
	form.Set("payment_method_data[billing_details][address][country]", "IN")

	endpoint := c.baseURL + "/v1/payment_intents/" + intentID + "/confirm"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.publishableKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Error  *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode confirmation: %w", err)
	}
	if out.Error != nil {
		msg := out.Error.Message
		if msg == "" {
			msg = "Payment failed"
		}
		return "", &DeclinedError{Message: msg}
	}
	if out.Status != "requires_capture" {
		return "", &DeclinedError{Message: "Payment was not successful"}
	}
	return out.ID, nil
}

// intentIDFromSecret extracts the payment-intent id from a client secret
// of the form pi_123_secret_456.
func intentIDFromSecret(clientSecret string) (string, error) {
	id, _, found := strings.Cut(clientSecret, "_secret")
	if !found || id == "" {
		return "", errors.New("malformed client secret")
	}
	return id, nil
}
