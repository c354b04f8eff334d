package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auction-service/internal/config"
	"github.com/spec-kit/auction-service/internal/domain"
	"github.com/spec-kit/auction-service/internal/events"
	"github.com/spec-kit/auction-service/internal/observability"
	"github.com/spec-kit/auction-service/internal/repository"
	apperrors "github.com/spec-kit/auction-service/pkg/util"
)

func newBidFixture(t *testing.T, deadline time.Time) (*BidService, *repository.MemoryStore, *domain.Auction) {
	t.Helper()

	store := repository.NewMemoryStore()
	auction := &domain.Auction{
		AuthorID:      "author-1",
		Name:          "signed vinyl",
		Category:      domain.CategoryMusic,
		StartingPrice: domain.MustMoney("10.00"),
		MinimalBid:    domain.MustMoney("1.00"),
		Deadline:      deadline,
	}
	require.NoError(t, store.Create(context.Background(), auction))

	svc := NewBidService(config.BiddingConfig{SubmitMaxRetries: 3}, BidDependencies{
		Ledger:      store,
		AuctionRepo: store,
		Dispatcher:  events.NewInMemoryDispatcher(),
		Metrics:     observability.NewMetrics(),
	})
	return svc, store, auction
}

func TestSubmitBidSequence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, auction := newBidFixture(t, now.Add(time.Hour))
	svc.now = func() time.Time { return now }

	// Starting price 10.00, increment 1.00: first valid bid is 11.00.
	bid, err := svc.SubmitBid(ctx, auction.ID, "bidder-1", domain.MustMoney("11.00"))
	require.NoError(t, err)
	require.Equal(t, "11.00", bid.Amount.String())

	// 11.50 undercuts 11.00 + 1.00.
	_, err = svc.SubmitBid(ctx, auction.ID, "bidder-2", domain.MustMoney("11.50"))
	require.True(t, apperrors.HasCode(err, apperrors.CodeInsufficientBid))
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "12.00", domainErr.Details["minimal_allowed"])

	// Exactly the floor is admitted.
	bid, err = svc.SubmitBid(ctx, auction.ID, "bidder-2", domain.MustMoney("12.00"))
	require.NoError(t, err)
	require.Equal(t, "12.00", bid.Amount.String())

	highest, err := svc.HighestBid(ctx, auction.ID)
	require.NoError(t, err)
	require.Equal(t, "12.00", highest.String())
}

func TestSubmitBidRejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("self bid", func(t *testing.T) {
		t.Parallel()
		svc, _, auction := newBidFixture(t, now.Add(time.Hour))
		svc.now = func() time.Time { return now }

		_, err := svc.SubmitBid(ctx, auction.ID, "author-1", domain.MustMoney("11.00"))
		require.True(t, apperrors.HasCode(err, apperrors.CodeSelfBid))
	})

	t.Run("zero amount", func(t *testing.T) {
		t.Parallel()
		svc, _, auction := newBidFixture(t, now.Add(time.Hour))

		_, err := svc.SubmitBid(ctx, auction.ID, "bidder-1", domain.MustMoney("0"))
		require.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("unknown auction", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newBidFixture(t, now.Add(time.Hour))

		_, err := svc.SubmitBid(ctx, "missing", "bidder-1", domain.MustMoney("11.00"))
		require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	})

	t.Run("deadline reached closes auction lazily", func(t *testing.T) {
		t.Parallel()
		svc, store, auction := newBidFixture(t, now)
		svc.now = func() time.Time { return now }

		_, err := svc.SubmitBid(ctx, auction.ID, "bidder-1", domain.MustMoney("11.00"))
		require.True(t, apperrors.HasCode(err, apperrors.CodeAuctionClosed))

		stored, err := store.GetByID(ctx, auction.ID)
		require.NoError(t, err)
		require.True(t, stored.Closed)
	})
}

// Concurrent submissions must serialize: every admitted bid clears the floor
// that held at its commit, so admitted amounts form a strictly increasing
// sequence with gaps of at least the minimal increment.
func TestSubmitBidConcurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, auction := newBidFixture(t, now.Add(time.Hour))
	svc.now = func() time.Time { return now }

	const bidders = 40
	var wg sync.WaitGroup
	admitted := make(chan string, bidders)

	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			amount := domain.MustMoney(fmt.Sprintf("%d.00", 11+i))
			bid, err := svc.SubmitBid(ctx, auction.ID, fmt.Sprintf("bidder-%d", i), amount)
			if err == nil {
				admitted <- bid.Amount.String()
			}
		}(i)
	}
	wg.Wait()
	close(admitted)

	var amounts []domain.Money
	for a := range admitted {
		amounts = append(amounts, domain.MustMoney(a))
	}
	require.NotEmpty(t, amounts)

	sort.Slice(amounts, func(i, j int) bool { return amounts[i].LessThan(amounts[j]) })

	floor := auction.StartingPrice.Add(auction.MinimalBid)
	for _, amount := range amounts {
		require.True(t, amount.GreaterThanEqual(floor),
			"admitted %s below floor %s", amount, floor)
		floor = amount.Add(auction.MinimalBid)
	}

	highest, err := svc.HighestBid(ctx, auction.ID)
	require.NoError(t, err)
	require.True(t, highest.Equal(amounts[len(amounts)-1]))
}

func TestListBids(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, auction := newBidFixture(t, now.Add(time.Hour))
	svc.now = func() time.Time { return now }

	_, err := svc.ListBids(ctx, "missing")
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	bids, err := svc.ListBids(ctx, auction.ID)
	require.NoError(t, err)
	require.Empty(t, bids)

	_, err = svc.SubmitBid(ctx, auction.ID, "bidder-1", domain.MustMoney("11.00"))
	require.NoError(t, err)
	_, err = svc.SubmitBid(ctx, auction.ID, "bidder-2", domain.MustMoney("12.00"))
	require.NoError(t, err)

	bids, err = svc.ListBids(ctx, auction.ID)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	require.Equal(t, "12.00", bids[0].Amount.String())
	require.Equal(t, "11.00", bids[1].Amount.String())
}
