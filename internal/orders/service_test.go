package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiitlabs/blakmarket/internal/catalog"
	"github.com/kiitlabs/blakmarket/internal/wallet"
)

func newFixture(t *testing.T) (*Service, *catalog.Store, *wallet.Memory) {
	t.Helper()
	cat := catalog.NewStore()
	dir := wallet.NewMemory()
	return NewService(cat, dir, 0), cat, dir
}

func listingPriced(t *testing.T, cat *catalog.Store, sellerID string, price int64) catalog.Listing {
	t.Helper()
	l, err := cat.Create(sellerID, "Seller", catalog.Draft{
		Title:       "Assignment Help - Data Structures",
		Description: "help with assignments",
		Price:       price,
		Category:    catalog.Category{Kind: catalog.KindGoods},
		Images:      []string{"https://img.example/1.jpg"},
	})
	require.NoError(t, err)
	return l
}

func TestPlatformFee(t *testing.T) {
	assert.Equal(t, int64(25), PlatformFee(500))
	assert.Equal(t, int64(2), PlatformFee(47)) // round(2.35) = 2
	assert.Equal(t, int64(1), PlatformFee(10)) // round(0.5) rounds up
	assert.Equal(t, int64(0), PlatformFee(0))
}

func TestGetQuote(t *testing.T) {
	svc, cat, _ := newFixture(t)
	l := listingPriced(t, cat, "seller", 500)

	q, err := svc.GetQuote(l.ID)
	require.NoError(t, err)
	assert.Equal(t, Quote{ItemPrice: 500, PlatformFee: 25, Total: 525}, q)

	_, err = svc.GetQuote("missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	require.NoError(t, cat.MarkUnavailable(l.ID))
	_, err = svc.GetQuote(l.ID)
	assert.ErrorIs(t, err, catalog.ErrUnavailable)
}

func TestSettleCashEndToEnd(t *testing.T) {
	svc, cat, dir := newFixture(t)
	ctx := context.Background()
	require.NoError(t, dir.Credit(ctx, "buyer", 1000, "seed"))
	l := listingPriced(t, cat, "seller", 500)

	q, err := svc.GetQuote(l.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(525), q.Total)

	order, err := svc.Settle(ctx, l.ID, "buyer", MethodCash)
	require.NoError(t, err)
	assert.Equal(t, StatusSettled, order.Status)
	assert.Equal(t, int64(500), order.ItemPrice)
	assert.Equal(t, int64(25), order.PlatformFee)
	assert.Equal(t, int64(525), order.Total)

	// listing sold, no points moved
	got, _ := cat.GetByID(l.ID)
	assert.False(t, got.IsAvailable)
	balance, _ := dir.GetBalance(ctx, "buyer")
	assert.Equal(t, int64(1000), balance)

	// second settle on the same listing conflicts
	_, err = svc.Settle(ctx, l.ID, "buyer", MethodCash)
	assert.ErrorIs(t, err, catalog.ErrUnavailable)
}

func TestSettlePointsDebitsTotal(t *testing.T) {
	svc, cat, dir := newFixture(t)
	ctx := context.Background()
	require.NoError(t, dir.Credit(ctx, "buyer", 600, "seed"))
	l := listingPriced(t, cat, "seller", 500)

	order, err := svc.Settle(ctx, l.ID, "buyer", MethodPoints)
	require.NoError(t, err)
	assert.Equal(t, StatusSettled, order.Status)

	balance, _ := dir.GetBalance(ctx, "buyer")
	assert.Equal(t, int64(75), balance) // 600 - 525
	got, _ := cat.GetByID(l.ID)
	assert.False(t, got.IsAvailable)
}

func TestSettlePointsInsufficientFundsMutatesNothing(t *testing.T) {
	svc, cat, dir := newFixture(t)
	ctx := context.Background()
	require.NoError(t, dir.Credit(ctx, "buyer", 500, "seed")) // total is 525
	l := listingPriced(t, cat, "seller", 500)

	_, err := svc.Settle(ctx, l.ID, "buyer", MethodPoints)
	var ife *wallet.InsufficientFundsError
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, int64(25), ife.Shortfall)

	// neither the listing nor the balance changed
	got, _ := cat.GetByID(l.ID)
	assert.True(t, got.IsAvailable)
	balance, _ := dir.GetBalance(ctx, "buyer")
	assert.Equal(t, int64(500), balance)
}

func TestSettleRejectsSelfPurchase(t *testing.T) {
	svc, cat, _ := newFixture(t)
	l := listingPriced(t, cat, "seller", 500)

	_, err := svc.Settle(context.Background(), l.ID, "seller", MethodCash)
	assert.ErrorIs(t, err, ErrSelfTransaction)

	got, _ := cat.GetByID(l.ID)
	assert.True(t, got.IsAvailable)
}

func TestSettleOwnSoldListingReportsUnavailable(t *testing.T) {
	svc, cat, _ := newFixture(t)
	l := listingPriced(t, cat, "seller", 500)
	require.NoError(t, cat.MarkUnavailable(l.ID))

	// availability is re-checked before the self-purchase guard
	_, err := svc.Settle(context.Background(), l.ID, "seller", MethodCash)
	assert.ErrorIs(t, err, catalog.ErrUnavailable)
}

func TestSettlePointsWithoutWalletReadsAsZeroBalance(t *testing.T) {
	svc, cat, _ := newFixture(t)
	l := listingPriced(t, cat, "seller", 500)

	_, err := svc.Settle(context.Background(), l.ID, "buyer", MethodPoints)
	var ife *wallet.InsufficientFundsError
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, int64(525), ife.Shortfall)

	got, _ := cat.GetByID(l.ID)
	assert.True(t, got.IsAvailable)
}

func TestSettleRejectsUnknownMethod(t *testing.T) {
	svc, cat, _ := newFixture(t)
	l := listingPriced(t, cat, "seller", 500)

	var ve *ValidationError
	_, err := svc.Settle(context.Background(), l.ID, "buyer", "card")
	assert.ErrorAs(t, err, &ve)
}

func TestSettleMissingListing(t *testing.T) {
	svc, _, _ := newFixture(t)
	_, err := svc.Settle(context.Background(), "missing", "buyer", MethodCash)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestConcurrentSettlesSingleWinner(t *testing.T) {
	svc, cat, dir := newFixture(t)
	ctx := context.Background()
	l := listingPriced(t, cat, "seller", 100)

	const n = 12
	for i := 0; i < n; i++ {
		require.NoError(t, dir.Credit(ctx, buyerName(i), 1000, "seed"))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var winners []string
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(buyer string) {
			defer wg.Done()
			if _, err := svc.Settle(ctx, l.ID, buyer, MethodPoints); err == nil {
				mu.Lock()
				winners = append(winners, buyer)
				mu.Unlock()
			}
		}(buyerName(i))
	}
	wg.Wait()

	require.Len(t, winners, 1, "exactly one buyer may win the listing")

	// only the winner paid
	for i := 0; i < n; i++ {
		balance, _ := dir.GetBalance(ctx, buyerName(i))
		if buyerName(i) == winners[0] {
			assert.Equal(t, int64(895), balance) // 1000 - 105
		} else {
			assert.Equal(t, int64(1000), balance)
		}
	}
}

func TestSellerRewardCreditedAfterSale(t *testing.T) {
	cat := catalog.NewStore()
	dir := wallet.NewMemory()
	svc := NewService(cat, dir, 50)
	ctx := context.Background()

	require.NoError(t, dir.Credit(ctx, "seller", 0, "open"))
	l := listingPriced(t, cat, "seller", 500)

	_, err := svc.Settle(ctx, l.ID, "buyer", MethodCash)
	require.NoError(t, err)

	balance, _ := dir.GetBalance(ctx, "seller")
	assert.Equal(t, int64(50), balance)
}

func TestListForUser(t *testing.T) {
	svc, cat, dir := newFixture(t)
	ctx := context.Background()
	require.NoError(t, dir.Credit(ctx, "buyer", 5000, "seed"))

	l1 := listingPriced(t, cat, "seller", 100)
	l2 := listingPriced(t, cat, "seller", 200)
	first, err := svc.Settle(ctx, l1.ID, "buyer", MethodCash)
	require.NoError(t, err)
	second, err := svc.Settle(ctx, l2.ID, "buyer", MethodPoints)
	require.NoError(t, err)

	asBuyer := svc.ListForUser("buyer")
	require.Len(t, asBuyer, 2)
	assert.Equal(t, second.ID, asBuyer[0].ID, "newest first")
	assert.Equal(t, first.ID, asBuyer[1].ID)

	asSeller := svc.ListForUser("seller")
	assert.Len(t, asSeller, 2)

	assert.Empty(t, svc.ListForUser("stranger"))
}

func buyerName(i int) string {
	return string(rune('a'+i)) + "-buyer"
}
