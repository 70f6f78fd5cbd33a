package cart

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sobooked/storefront/internal/models"
	"github.com/sobooked/storefront/internal/session"
	"github.com/sobooked/storefront/internal/upstream"
)

type fakeSessions struct {
	sess    session.Session
	absent  bool
	cleared bool
}

func (f *fakeSessions) Load() (session.Session, error) {
	if f.absent || f.cleared {
		return session.Session{}, session.ErrNoSession
	}
	return f.sess, nil
}

func (f *fakeSessions) Clear() error {
	f.cleared = true
	return nil
}

type fakeCartAPI struct {
	items     []models.CartItem
	itemsErr  error
	removeErr error
	removed   []uint
}

func (f *fakeCartAPI) CartItems(ctx context.Context, token string) ([]models.CartItem, error) {
	return f.items, f.itemsErr
}

func (f *fakeCartAPI) RemoveFromCart(ctx context.Context, token string, bookID uint) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, bookID)
	return nil
}

func testItems() []models.CartItem {
	return []models.CartItem{
		{ID: 1, BookID: 10, BookName: "Dune", BuyPrice: 300, RentalPrice: 50, Renting: false},
		{ID: 2, BookID: 20, BookName: "Emma", BuyPrice: 200, RentalPrice: 40, Renting: true},
		{ID: 3, BookID: 30, BookName: "Hyperion", BuyPrice: 150, RentalPrice: 30, Renting: false},
	}
}

func newTestPanel(api *fakeCartAPI, sessions *fakeSessions) *Panel {
	return NewPanel(api, sessions, slog.Default())
}

func TestOpen_RequiresSession(t *testing.T) {
	t.Parallel()

	p := newTestPanel(&fakeCartAPI{}, &fakeSessions{absent: true})
	_, err := p.Open(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, StateClosed, p.State())
}

func TestOpen_LoadsItems(t *testing.T) {
	t.Parallel()

	p := newTestPanel(&fakeCartAPI{items: testItems()}, &fakeSessions{sess: session.Session{JWT: "tok"}})
	items, err := p.Open(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, StateLoaded, p.State())
	assert.Equal(t, 3, p.Count())
}

func TestOpen_FetchFailure(t *testing.T) {
	t.Parallel()

	p := newTestPanel(&fakeCartAPI{itemsErr: errors.New("boom")}, &fakeSessions{sess: session.Session{JWT: "tok"}})
	_, err := p.Open(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, p.State())
	assert.Empty(t, p.Items())
}

func TestClose_DropsAllState(t *testing.T) {
	t.Parallel()

	p := newTestPanel(&fakeCartAPI{items: testItems()}, &fakeSessions{sess: session.Session{JWT: "tok"}})
	_, err := p.Open(context.Background())
	require.NoError(t, err)

	p.Close()
	assert.Equal(t, StateClosed, p.State())
	assert.Empty(t, p.Items())
	assert.Zero(t, p.Subtotal())
}

func TestRemove_ExactlyOneItemOrderKept(t *testing.T) {
	t.Parallel()

	api := &fakeCartAPI{items: testItems()}
	p := newTestPanel(api, &fakeSessions{sess: session.Session{JWT: "tok"}})
	_, err := p.Open(context.Background())
	require.NoError(t, err)

	// subtotal before: 300 (buy) + 40 (rent) + 150 (buy)
	assert.InDelta(t, 490, p.Subtotal(), 1e-9)

	require.NoError(t, p.Remove(context.Background(), 20))
	assert.Equal(t, []uint{20}, api.removed)

	items := p.Items()
	require.Len(t, items, 2)
	assert.EqualValues(t, 10, items[0].BookID)
	assert.EqualValues(t, 30, items[1].BookID)
	assert.InDelta(t, 450, p.Subtotal(), 1e-9)
	assert.False(t, p.Removing(20))
}

func TestRemove_ServerFailureKeepsItem(t *testing.T) {
	t.Parallel()

	api := &fakeCartAPI{items: testItems(), removeErr: errors.New("boom")}
	p := newTestPanel(api, &fakeSessions{sess: session.Session{JWT: "tok"}})
	_, err := p.Open(context.Background())
	require.NoError(t, err)

	require.Error(t, p.Remove(context.Background(), 20))
	assert.Equal(t, 3, p.Count())
	assert.False(t, p.Removing(20))
}

func TestSessionExpired_ClearsStoredSession(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{sess: session.Session{JWT: "tok"}}
	api := &fakeCartAPI{itemsErr: upstream.ErrSessionExpired}
	p := newTestPanel(api, sessions)

	_, err := p.Open(context.Background())
	assert.ErrorIs(t, err, upstream.ErrSessionExpired)
	assert.True(t, sessions.cleared)

	// no authenticated state remains: the next open sees no session
	_, err = p.Open(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRemove_SessionExpired_ClearsStoredSession(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{sess: session.Session{JWT: "tok"}}
	api := &fakeCartAPI{items: testItems(), removeErr: upstream.ErrSessionExpired}
	p := newTestPanel(api, sessions)
	_, err := p.Open(context.Background())
	require.NoError(t, err)

	err = p.Remove(context.Background(), 10)
	assert.ErrorIs(t, err, upstream.ErrSessionExpired)
	assert.True(t, sessions.cleared)
}
