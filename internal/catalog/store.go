package catalog

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds all listings in memory. Every read-modify-write runs under
// the write lock, so listing state transitions are indivisible.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]*Listing
	order []*Listing // insertion order, oldest first
}

// NewStore creates an empty catalog.
func NewStore() *Store {
	return &Store{byID: make(map[string]*Listing)}
}

// Create validates the draft, assigns id and timestamp and stores the
// listing. It is visible to reads as soon as Create returns.
func (s *Store) Create(sellerID, sellerName string, d Draft) (Listing, error) {
	if err := d.validate(); err != nil {
		return Listing{}, err
	}

	l := &Listing{
		ID:          uuid.New().String(),
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Subcategory: d.Subcategory,
		Images:      append([]string(nil), d.Images...),
		SellerID:    sellerID,
		SellerName:  sellerName,
		Location:    d.Location,
		DatePosted:  time.Now().UTC(),
		IsAvailable: true,
		Tags:        append([]string(nil), d.Tags...),
	}

	s.mu.Lock()
	s.byID[l.ID] = l
	s.order = append(s.order, l)
	s.mu.Unlock()

	return *l, nil
}

// GetByID returns the listing or ErrNotFound.
func (s *Store) GetByID(id string) (Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.byID[id]
	if !ok {
		return Listing{}, ErrNotFound
	}
	return *l, nil
}

// Search matches the query case-insensitively against title, description
// and tags, newest first. An empty query matches nothing: "no filter" is
// the caller's decision, not an empty search.
func (s *Store) Search(query string) []Listing {
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Listing
	for i := len(s.order) - 1; i >= 0; i-- {
		l := s.order[i]
		if matchesQuery(l, q) {
			out = append(out, *l)
		}
	}
	return out
}

func matchesQuery(l *Listing, q string) bool {
	if strings.Contains(strings.ToLower(l.Title), q) ||
		strings.Contains(strings.ToLower(l.Description), q) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// FilterByCategory returns listings of the given kind, newest first.
// "all" means no filter.
func (s *Store) FilterByCategory(kind string) []Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Listing
	for i := len(s.order) - 1; i >= 0; i-- {
		l := s.order[i]
		if kind == "all" || string(l.Category.Kind) == kind {
			out = append(out, *l)
		}
	}
	return out
}

// ListBySeller returns the seller's listings, newest first.
func (s *Store) ListBySeller(sellerID string) []Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Listing
	for i := len(s.order) - 1; i >= 0; i-- {
		l := s.order[i]
		if l.SellerID == sellerID {
			out = append(out, *l)
		}
	}
	return out
}

// MarkUnavailable flips IsAvailable off. Repeated calls are a no-op that
// still succeeds.
func (s *Store) MarkUnavailable(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	l.IsAvailable = false
	return nil
}

// CompleteSale reserves an available listing, runs commit, and only if
// commit succeeds marks the listing unavailable. The reservation is
// taken and released under the store lock, but commit itself runs with
// the lock dropped, so a slow commit (the Postgres ledger does network
// I/O) never blocks unrelated catalog operations. Concurrent sales of
// the same listing still serialize on the reservation: the loser sees
// ErrUnavailable. A failed commit releases the reservation and leaves
// the listing available.
func (s *Store) CompleteSale(id string, commit func(Listing) error) (Listing, error) {
	s.mu.Lock()
	l, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return Listing{}, ErrNotFound
	}
	if !l.IsAvailable || l.pending {
		s.mu.Unlock()
		return Listing{}, ErrUnavailable
	}
	l.pending = true
	snapshot := *l
	s.mu.Unlock()

	if commit != nil {
		if err := commit(snapshot); err != nil {
			s.mu.Lock()
			l.pending = false
			s.mu.Unlock()
			return Listing{}, err
		}
	}

	s.mu.Lock()
	l.pending = false
	l.IsAvailable = false
	sold := *l
	s.mu.Unlock()
	return sold, nil
}
