// Package catalog holds the authoritative-from-server book list and
// computes derived views over it: the city list, the filtered browse
// result and the caller's saved-book set.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/sobooked/storefront/internal/models"
)

const AllCities = "All Cities"

// API is the slice of the upstream client the store needs.
type API interface {
	Books(ctx context.Context) ([]models.Book, error)
	SavedBooks(ctx context.Context, token string) ([]models.SavedBook, error)
}

type Store struct {
	api API
	log *slog.Logger

	mu     sync.RWMutex
	books  []models.Book
	cities []string
	saved  map[uint]bool
}

func New(api API, log *slog.Logger) *Store {
	return &Store{
		api:   api,
		log:   log,
		saved: map[uint]bool{},
	}
}

// Load fetches the full catalog once. A failed fetch leaves the list empty
// and is only logged; browsing an empty catalog beats a blocking error.
func (s *Store) Load(ctx context.Context) {
	books, err := s.api.Books(ctx)
	if err != nil {
		s.log.Error("fetch books", "error", err)
		return
	}

	cities := []string{AllCities}
	seen := map[string]bool{}
	for _, b := range books {
		if !seen[b.City] {
			seen[b.City] = true
			cities = append(cities, b.City)
		}
	}

	s.mu.Lock()
	s.books = books
	s.cities = cities
	s.mu.Unlock()
}

// Books returns the unfiltered catalog in source order.
func (s *Store) Books() []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Cities returns "All Cities" plus each catalog city in first-seen order.
func (s *Store) Cities() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cities == nil {
		return []string{AllCities}
	}
	out := make([]string, len(s.cities))
	copy(out, s.cities)
	return out
}

// Filter returns the books matching the city selection AND the search
// query. The query matches case-insensitively as a substring of name,
// description, author or city (OR across fields). Source order is kept.
func (s *Store) Filter(city, query string) []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]models.Book, 0, len(s.books))
	for _, b := range s.books {
		if city != AllCities && b.City != city {
			continue
		}
		if !matchesQuery(b, q) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesQuery(b models.Book, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.Name), q) ||
		strings.Contains(strings.ToLower(b.Description), q) ||
		strings.Contains(strings.ToLower(b.Author), q) ||
		strings.Contains(strings.ToLower(b.City), q)
}

// BySlug finds a book by its detail-route slug.
func (s *Store) BySlug(slug string) (models.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if Slug(b.Name) == slug {
			return b, true
		}
	}
	return models.Book{}, false
}

// RefreshSaved fetches the caller's saved-book associations and reduces
// them to an id set. Without a token it is a no-op; saved state only
// exists for authenticated users. Errors are logged, not surfaced, like
// Load.
func (s *Store) RefreshSaved(ctx context.Context, token string) {
	if token == "" {
		return
	}
	saved, err := s.api.SavedBooks(ctx, token)
	if err != nil {
		s.log.Error("fetch saved books", "error", err)
		return
	}
	set := make(map[uint]bool, len(saved))
	for _, sb := range saved {
		set[sb.BookID] = true
	}
	s.mu.Lock()
	s.saved = set
	s.mu.Unlock()
}

// IsSaved reports whether the book is in the caller's saved set.
func (s *Store) IsSaved(bookID uint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved[bookID]
}

// SetSaved updates the local set after the server confirmed a toggle.
func (s *Store) SetSaved(bookID uint, saved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if saved {
		s.saved[bookID] = true
	} else {
		delete(s.saved, bookID)
	}
}

// SavedIDs returns an unordered snapshot of the saved set.
func (s *Store) SavedIDs() []uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]uint, 0, len(s.saved))
	for id := range s.saved {
		out = append(out, id)
	}
	return out
}

// Slug maps a book name onto its detail route segment: lowercased, runs of
// non-alphanumerics collapsed to a single dash.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
