// Package checkout runs the three-step payment protocol: place the order
// upstream, confirm the card with the processor, confirm the capture back
// upstream. Each step is a prerequisite for the next and none is retried.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sobooked/storefront/internal/payment"
)

// ErrUnconfirmed marks a step-3 failure: the processor has captured the
// payment but the backend order is unconfirmed. The client has no
// compensation path for this window; it can only report it.
var ErrUnconfirmed = errors.New("payment captured but order unconfirmed")

// Orders is the slice of the upstream client the flow needs.
type Orders interface {
	PlaceOrder(ctx context.Context, token string) (string, error)
	ConfirmPayment(ctx context.Context, token, paymentID string) error
}

// Processor confirms one card payment for one client secret.
type Processor interface {
	ConfirmCardPayment(ctx context.Context, clientSecret string, card payment.Card) (string, error)
}

type Flow struct {
	orders    Orders
	processor Processor
	log       *slog.Logger
}

func NewFlow(orders Orders, processor Processor, log *slog.Logger) *Flow {
	return &Flow{orders: orders, processor: processor, log: log}
}

// Run executes the protocol and calls onSuccess after all three steps
// completed. Step errors come back unchanged so the caller can show the
// server's or the processor's own text; only the step-3 inconsistency is
// wrapped in ErrUnconfirmed.
func (f *Flow) Run(ctx context.Context, token string, card payment.Card, onSuccess func()) error {
	clientSecret, err := f.orders.PlaceOrder(ctx, token)
	if err != nil {
		return fmt.Errorf("order placement failed: %w", err)
	}

	paymentID, err := f.processor.ConfirmCardPayment(ctx, clientSecret, card)
	if err != nil {
		return err
	}

	if err := f.orders.ConfirmPayment(ctx, token, paymentID); err != nil {
		f.log.Error("backend payment confirmation failed", "payment_id", paymentID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnconfirmed, err)
	}

	if onSuccess != nil {
		onSuccess()
	}
	return nil
}
