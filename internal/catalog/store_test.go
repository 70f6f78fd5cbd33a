package catalog

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sobooked/storefront/internal/models"
)

type fakeAPI struct {
	books      []models.Book
	booksErr   error
	saved      []models.SavedBook
	savedErr   error
	savedCalls int
}

func (f *fakeAPI) Books(ctx context.Context) ([]models.Book, error) {
	return f.books, f.booksErr
}

func (f *fakeAPI) SavedBooks(ctx context.Context, token string) ([]models.SavedBook, error) {
	f.savedCalls++
	return f.saved, f.savedErr
}

func testBooks() []models.Book {
	return []models.Book{
		{ID: 1, Name: "dune", Author: "Frank Herbert", Description: "spice and sand", City: "Mumbai"},
		{ID: 2, Name: "Hyperion", Author: "Dan Simmons", Description: "pilgrims", City: "Delhi"},
		{ID: 3, Name: "Emma", Author: "Jane Austen", Description: "a novel set in Highbury", City: "Mumbai"},
		{ID: 4, Name: "Dubliners", Author: "James Joyce", Description: "stories", City: "Pune"},
	}
}

func newLoadedStore(t *testing.T, api *fakeAPI) *Store {
	t.Helper()
	s := New(api, slog.Default())
	s.Load(context.Background())
	return s
}

func TestLoad_FailureLeavesCatalogEmpty(t *testing.T) {
	t.Parallel()

	s := newLoadedStore(t, &fakeAPI{booksErr: errors.New("boom")})
	assert.Empty(t, s.Books())
	assert.Equal(t, []string{AllCities}, s.Cities())
}

func TestCities_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	s := newLoadedStore(t, &fakeAPI{books: testBooks()})
	assert.Equal(t, []string{AllCities, "Mumbai", "Delhi", "Pune"}, s.Cities())
}

func TestFilter(t *testing.T) {
	t.Parallel()

	s := newLoadedStore(t, &fakeAPI{books: testBooks()})

	tests := []struct {
		name    string
		city    string
		query   string
		wantIDs []uint
	}{
		{name: "no filter returns everything in order", city: AllCities, query: "", wantIDs: []uint{1, 2, 3, 4}},
		{name: "city only", city: "Mumbai", query: "", wantIDs: []uint{1, 3}},
		{name: "query matches name", city: AllCities, query: "dun", wantIDs: []uint{1}},
		{name: "query is case-insensitive", city: AllCities, query: "DUN", wantIDs: []uint{1}},
		{name: "query matches author", city: AllCities, query: "austen", wantIDs: []uint{3}},
		{name: "query matches description", city: AllCities, query: "pilgrim", wantIDs: []uint{2}},
		{name: "query matches city field", city: AllCities, query: "pune", wantIDs: []uint{4}},
		{name: "city excludes query match", city: "Delhi", query: "dun", wantIDs: []uint{}},
		{name: "city and query combine", city: "Mumbai", query: "highbury", wantIDs: []uint{3}},
		{name: "no match", city: AllCities, query: "zzz", wantIDs: []uint{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := s.Filter(tt.city, tt.query)
			ids := make([]uint, 0, len(got))
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFilter_IdentityReturnsSourceBooks(t *testing.T) {
	t.Parallel()

	s := newLoadedStore(t, &fakeAPI{books: testBooks()})
	assert.Equal(t, s.Books(), s.Filter(AllCities, ""))
}

func TestBySlug(t *testing.T) {
	t.Parallel()

	s := newLoadedStore(t, &fakeAPI{books: []models.Book{
		{ID: 1, Name: "The Left Hand of Darkness"},
		{ID: 2, Name: "Catch-22!"},
	}})

	b, ok := s.BySlug("the-left-hand-of-darkness")
	require.True(t, ok)
	assert.EqualValues(t, 1, b.ID)

	b, ok = s.BySlug("catch-22")
	require.True(t, ok)
	assert.EqualValues(t, 2, b.ID)

	_, ok = s.BySlug("missing")
	assert.False(t, ok)
}

func TestRefreshSaved(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{saved: []models.SavedBook{{ID: 1, BookID: 2, UserID: 9}, {ID: 2, BookID: 4, UserID: 9}}}
	s := New(api, slog.Default())

	// no token, no fetch
	s.RefreshSaved(context.Background(), "")
	assert.Zero(t, api.savedCalls)
	assert.False(t, s.IsSaved(2))

	s.RefreshSaved(context.Background(), "tok")
	assert.Equal(t, 1, api.savedCalls)
	assert.True(t, s.IsSaved(2))
	assert.True(t, s.IsSaved(4))
	assert.False(t, s.IsSaved(1))
}

func TestSetSaved_ToggleTwiceRestoresSet(t *testing.T) {
	t.Parallel()

	s := New(&fakeAPI{}, slog.Default())
	before := s.SavedIDs()

	s.SetSaved(7, true)
	assert.True(t, s.IsSaved(7))
	s.SetSaved(7, false)
	assert.False(t, s.IsSaved(7))
	assert.ElementsMatch(t, before, s.SavedIDs())
}

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Dune", want: "dune"},
		{in: "The Left Hand of Darkness", want: "the-left-hand-of-darkness"},
		{in: "Catch-22!", want: "catch-22"},
		{in: "A  Wizard   of Earthsea", want: "a-wizard-of-earthsea"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in))
	}
}
