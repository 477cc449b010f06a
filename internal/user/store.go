package user

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds accounts in memory. Email uniqueness is enforced under
// the write lock.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]*User
}

// NewStore creates an empty account store.
func NewStore() *Store {
	return &Store{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

// Create registers a new account. Emails are case-insensitive unique.
func (s *Store) Create(name, email, passwordHash string) (User, error) {
	key := strings.ToLower(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[key]; exists {
		return User{}, ErrEmailTaken
	}
	u := &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.byID[u.ID] = u
	s.byEmail[key] = u
	return *u, nil
}

// GetByID returns the account or ErrNotFound.
func (s *Store) GetByID(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return *u, nil
}

// GetByEmail returns the account or ErrNotFound.
func (s *Store) GetByEmail(email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return *u, nil
}

// DisplayName resolves an account id to its display name.
func (s *Store) DisplayName(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return "", false
	}
	return u.Name, true
}
