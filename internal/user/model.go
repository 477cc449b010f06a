package user

import (
	"errors"
	"time"
)

// User is a marketplace account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
}

var (
	// ErrNotFound indicates the account does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)
