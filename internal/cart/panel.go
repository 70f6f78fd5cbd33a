// Package cart implements the cart panel: transient read-through state
// over the remote cart service, refetched on every open.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sobooked/storefront/internal/models"
	"github.com/sobooked/storefront/internal/session"
	"github.com/sobooked/storefront/internal/upstream"
)

var ErrNotAuthenticated = errors.New("user not authenticated")

// API is the slice of the upstream client the panel needs.
type API interface {
	CartItems(ctx context.Context, token string) ([]models.CartItem, error)
	RemoveFromCart(ctx context.Context, token string, bookID uint) error
}

// Sessions is the session store surface the 403 policy needs.
type Sessions interface {
	Load() (session.Session, error)
	Clear() error
}

type State int

const (
	StateClosed State = iota
	StateLoading
	StateLoaded
	StateFailed
)

type Panel struct {
	api      API
	sessions Sessions
	log      *slog.Logger

	mu       sync.Mutex
	state    State
	items    []models.CartItem
	removing map[uint]bool
}

func NewPanel(api API, sessions Sessions, log *slog.Logger) *Panel {
	return &Panel{
		api:      api,
		sessions: sessions,
		log:      log,
		removing: map[uint]bool{},
	}
}

// Open refetches the cart. Every open goes closed→loading→(loaded|error);
// the panel never serves stale items from a previous open.
func (p *Panel) Open(ctx context.Context) ([]models.CartItem, error) {
	sess, err := p.sessions.Load()
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	p.mu.Lock()
	p.state = StateLoading
	p.items = nil
	p.mu.Unlock()

	items, err := p.api.CartItems(ctx, sess.JWT)
	if err != nil {
		p.mu.Lock()
		p.state = StateFailed
		p.mu.Unlock()
		return nil, p.mapErr(err)
	}

	p.mu.Lock()
	p.state = StateLoaded
	p.items = items
	p.mu.Unlock()
	return p.Items(), nil
}

// Close drops all local cart state.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateClosed
	p.items = nil
	p.removing = map[uint]bool{}
}

func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Panel) Items() []models.CartItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.CartItem, len(p.items))
	copy(out, p.items)
	return out
}

// Remove deletes one book from the cart. The local list only changes after
// the server confirms; until then the item is flagged as removing so the
// UI can disable just that row.
func (p *Panel) Remove(ctx context.Context, bookID uint) error {
	sess, err := p.sessions.Load()
	if err != nil {
		return ErrNotAuthenticated
	}

	p.mu.Lock()
	if p.removing[bookID] {
		p.mu.Unlock()
		return fmt.Errorf("book %d is already being removed", bookID)
	}
	p.removing[bookID] = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.removing, bookID)
		p.mu.Unlock()
	}()

	if err := p.api.RemoveFromCart(ctx, sess.JWT, bookID); err != nil {
		return p.mapErr(err)
	}

	p.mu.Lock()
	kept := p.items[:0]
	for _, it := range p.items {
		if it.BookID != bookID {
			kept = append(kept, it)
		}
	}
	p.items = kept
	p.mu.Unlock()
	return nil
}

// Removing reports whether a delete round trip is in flight for the book.
func (p *Panel) Removing(bookID uint) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.removing[bookID]
}

// Subtotal sums the applicable price over the current items.
func (p *Panel) Subtotal() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	var sum float64
	for _, it := range p.items {
		sum += it.Price()
	}
	return sum
}

func (p *Panel) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// mapErr applies the one cross-cutting error policy: an expired session
// clears the stored token so no authenticated state survives.
func (p *Panel) mapErr(err error) error {
	if errors.Is(err, upstream.ErrSessionExpired) {
		if cerr := p.sessions.Clear(); cerr != nil {
			p.log.Error("clear session", "error", cerr)
		}
		return fmt.Errorf("session expired, please log in again: %w", upstream.ErrSessionExpired)
	}
	return err
}
