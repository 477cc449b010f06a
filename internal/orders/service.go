package orders

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kiitlabs/blakmarket/internal/catalog"
	"github.com/kiitlabs/blakmarket/internal/wallet"
)

// Service computes quotes and settles purchases against the catalog and
// the points ledger.
type Service struct {
	catalog   *catalog.Store
	directory wallet.Directory

	// sellers earn this many reward points per completed sale
	saleReward int64

	mu      sync.RWMutex
	settled []Order
}

// NewService wires the order service to its collaborators.
func NewService(cat *catalog.Store, dir wallet.Directory, saleReward int64) *Service {
	return &Service{catalog: cat, directory: dir, saleReward: saleReward}
}

// GetQuote returns the fee breakdown for an available listing.
func (s *Service) GetQuote(listingID string) (Quote, error) {
	l, err := s.catalog.GetByID(listingID)
	if err != nil {
		return Quote{}, err
	}
	if !l.IsAvailable {
		return Quote{}, catalog.ErrUnavailable
	}
	fee := PlatformFee(l.Price)
	return Quote{ItemPrice: l.Price, PlatformFee: fee, Total: l.Price + fee}, nil
}

// Settle finalizes a purchase: it re-checks the listing, rejects
// self-purchases, and applies the availability transition together with
// the points debit as one unit. On any failure nothing is mutated.
//
// The listing stays reserved while the debit runs, but the catalog lock
// is not held across it, so ledger I/O never stalls unrelated catalog
// reads. Availability is re-checked before anything else inside the
// reservation, so settling an already-sold listing reports Unavailable
// even when the buyer is also the seller.
func (s *Service) Settle(ctx context.Context, listingID, buyerID, method string) (Order, error) {
	if method != MethodCash && method != MethodPoints {
		return Order{}, &ValidationError{Field: "payment_method", Msg: "must be cash or points"}
	}

	l, err := s.catalog.GetByID(listingID)
	if err != nil {
		return Order{}, err
	}

	fee := PlatformFee(l.Price)
	order := Order{
		ID:            uuid.New().String(),
		ListingID:     l.ID,
		BuyerID:       buyerID,
		SellerID:      l.SellerID,
		ItemPrice:     l.Price,
		PlatformFee:   fee,
		Total:         l.Price + fee,
		PaymentMethod: method,
		Status:        StatusPending,
	}

	commit := func(reserved catalog.Listing) error {
		if reserved.SellerID == buyerID {
			return ErrSelfTransaction
		}
		// Cash settles off-system; only the availability transition applies.
		if method != MethodPoints {
			return nil
		}
		err := s.directory.Debit(ctx, buyerID, order.Total, order.ID)
		if errors.Is(err, wallet.ErrNotFound) {
			// an account with no wallet reads as a zero balance
			return &wallet.InsufficientFundsError{Shortfall: order.Total}
		}
		return err
	}
	if _, err := s.catalog.CompleteSale(listingID, commit); err != nil {
		return Order{}, err
	}

	order.Status = StatusSettled
	order.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.settled = append(s.settled, order)
	s.mu.Unlock()

	// Reward the seller after the sale committed; failure here must not
	// unwind a completed settlement.
	if s.saleReward > 0 {
		if err := s.directory.Credit(ctx, order.SellerID, s.saleReward, "reward:"+order.ID); err != nil {
			log.Printf("sale reward credit failed for order %s: %v", order.ID, err)
		}
	}

	return order, nil
}

// ListForUser returns the user's settled orders as buyer or seller,
// newest first.
func (s *Service) ListForUser(userID string) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Order
	for i := len(s.settled) - 1; i >= 0; i-- {
		o := s.settled[i]
		if o.BuyerID == userID || o.SellerID == userID {
			out = append(out, o)
		}
	}
	return out
}
