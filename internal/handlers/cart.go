package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sobooked/storefront/internal/cart"
	"github.com/sobooked/storefront/internal/checkout"
	"github.com/sobooked/storefront/internal/models"
	"github.com/sobooked/storefront/internal/payment"
)

// CartAPI is the add-to-cart slice of the upstream client; reads and
// removals go through the panel.
type CartAPI interface {
	AddToCart(ctx context.Context, token string, bookID uint, renting bool) error
}

type CartHandler struct {
	Panel    *cart.Panel
	Flow     *checkout.Flow
	API      CartAPI
	Sessions Sessions
	Log      *slog.Logger
}

type cartResponse struct {
	Items    []models.CartItem `json:"items"`
	Count    int               `json:"count"`
	Subtotal float64           `json:"subtotal"`
}

func (h *CartHandler) cartJSON(c echo.Context) error {
	return c.JSON(http.StatusOK, cartResponse{
		Items:    h.Panel.Items(),
		Count:    h.Panel.Count(),
		Subtotal: h.Panel.Subtotal(),
	})
}

// Open refetches and serves the cart.
func (h *CartHandler) Open(c echo.Context) error {
	if _, err := h.Panel.Open(c.Request().Context()); err != nil {
		return h.panelError(err)
	}
	return h.cartJSON(c)
}

// Close drops the transient cart state.
func (h *CartHandler) Close(c echo.Context) error {
	h.Panel.Close()
	return c.NoContent(http.StatusNoContent)
}

// Add puts a book in the remote cart. The panel state is untouched; the
// next open refetches.
func (h *CartHandler) Add(c echo.Context) error {
	bookID, err := parseBookID(c.QueryParam("bookId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	renting := c.QueryParam("isRenting") == "true"

	if err := h.API.AddToCart(c.Request().Context(), token(c), bookID, renting); err != nil {
		return upstreamHTTPError(h.Sessions, h.Log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"bookId": bookID, "renting": renting})
}

// Remove deletes one item and serves the remaining cart.
func (h *CartHandler) Remove(c echo.Context) error {
	bookID, err := parseBookID(c.FormValue("bookId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	if err := h.Panel.Remove(c.Request().Context(), bookID); err != nil {
		return h.panelError(err)
	}
	return h.cartJSON(c)
}

type checkoutRequest struct {
	CardNumber string `json:"cardNumber"`
	ExpMonth   string `json:"expMonth"`
	ExpYear    string `json:"expYear"`
	CVC        string `json:"cvc"`
}

// Checkout runs the three-step payment flow over the current cart and
// clears the panel on success.
func (h *CartHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	card := payment.Card{
		Number:   req.CardNumber,
		ExpMonth: req.ExpMonth,
		ExpYear:  req.ExpYear,
		CVC:      req.CVC,
	}

	err := h.Flow.Run(c.Request().Context(), token(c), card, h.Panel.Close)
	if err != nil {
		var declined *payment.DeclinedError
		switch {
		case errors.As(err, &declined):
			return echo.NewHTTPError(http.StatusPaymentRequired, declined.Message)
		case errors.Is(err, checkout.ErrUnconfirmed):
			return echo.NewHTTPError(http.StatusBadGateway, "Failed to confirm payment with server")
		default:
			return upstreamHTTPError(h.Sessions, h.Log, err)
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "paid"})
}

// panelError maps panel failures; the panel has already applied the
// session-clearing policy itself.
func (h *CartHandler) panelError(err error) error {
	if errors.Is(err, cart.ErrNotAuthenticated) {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated. Please log in.")
	}
	return upstreamHTTPError(h.Sessions, h.Log, err)
}
