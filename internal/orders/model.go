package orders

import (
	"errors"
	"fmt"
	"time"
)

// Payment methods.
const (
	MethodCash   = "cash"
	MethodPoints = "points"
)

// Order statuses.
const (
	StatusPending = "pending"
	StatusSettled = "settled"
	StatusFailed  = "failed"
)

// Order records one settled purchase.
type Order struct {
	ID            string    `json:"id"`
	ListingID     string    `json:"listing_id"`
	BuyerID       string    `json:"buyer_id"`
	SellerID      string    `json:"seller_id"`
	ItemPrice     int64     `json:"item_price"`
	PlatformFee   int64     `json:"platform_fee"`
	Total         int64     `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Quote is the fee breakdown for a listing at its current price.
type Quote struct {
	ItemPrice   int64 `json:"item_price"`
	PlatformFee int64 `json:"platform_fee"`
	Total       int64 `json:"total"`
}

// ErrSelfTransaction rejects a buyer purchasing their own listing.
var ErrSelfTransaction = errors.New("cannot buy your own listing")

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// PlatformFee is 5% of the item price, rounded half up to the nearest
// point. All currency arithmetic stays in integers.
func PlatformFee(itemPrice int64) int64 {
	return (itemPrice*5 + 50) / 100
}
