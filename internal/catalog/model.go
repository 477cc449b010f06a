package catalog

import (
	"errors"
	"fmt"
	"time"
)

// CategoryKind discriminates the listing variants.
type CategoryKind string

const (
	KindGoods   CategoryKind = "goods"
	KindService CategoryKind = "service"
	KindRental  CategoryKind = "rental"
)

// Category is a tagged variant: RentalDuration is meaningful only when
// Kind is KindRental, and validation rejects every other combination.
type Category struct {
	Kind           CategoryKind `json:"kind"`
	RentalDuration string       `json:"rental_duration,omitempty"`
}

// Listing is a sellable or rentable catalog entry. Everything except
// IsAvailable is immutable after creation.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Category    Category  `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Images      []string  `json:"images"`
	SellerID    string    `json:"seller_id"`
	SellerName  string    `json:"seller_name"`
	Location    string    `json:"location"`
	DatePosted  time.Time `json:"date_posted"`
	IsAvailable bool      `json:"is_available"`
	Tags        []string  `json:"tags"`

	// pending marks a sale reservation in flight. Only the store
	// mutates it, always under the store lock.
	pending bool
}

// Draft carries the caller-supplied fields for a new listing.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory"`
	Images      []string `json:"images"`
	Location    string   `json:"location"`
	Tags        []string `json:"tags"`
}

var (
	// ErrNotFound indicates the referenced listing does not exist.
	ErrNotFound = errors.New("listing not found")
	// ErrUnavailable indicates the listing has already been sold or removed.
	ErrUnavailable = errors.New("listing unavailable")
)

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func (d Draft) validate() error {
	if d.Title == "" {
		return &ValidationError{Field: "title", Msg: "must not be empty"}
	}
	if d.Price < 0 {
		return &ValidationError{Field: "price", Msg: "must not be negative"}
	}
	if len(d.Images) == 0 {
		return &ValidationError{Field: "images", Msg: "at least one image is required"}
	}
	switch d.Category.Kind {
	case KindGoods, KindService:
		if d.Category.RentalDuration != "" {
			return &ValidationError{Field: "category", Msg: "rental_duration only applies to rentals"}
		}
	case KindRental:
		if d.Category.RentalDuration == "" {
			return &ValidationError{Field: "category", Msg: "rentals require a rental_duration"}
		}
	default:
		return &ValidationError{Field: "category", Msg: "must be goods, service or rental"}
	}
	return nil
}
