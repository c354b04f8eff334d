package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auction-service/internal/domain"
	apperrors "github.com/spec-kit/auction-service/pkg/util"
)

func newOpenAuction(t *testing.T, store *MemoryStore, author string, deadline time.Time) *domain.Auction {
	t.Helper()
	auction := &domain.Auction{
		AuthorID:      author,
		Name:          "retro camera",
		Category:      domain.CategoryElectronics,
		StartingPrice: domain.MustMoney("10.00"),
		MinimalBid:    domain.MustMoney("1.00"),
		Deadline:      deadline,
	}
	require.NoError(t, store.Create(context.Background(), auction))
	return auction
}

func TestMemoryStoreAppendAndHighest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auction := newOpenAuction(t, store, "author-1", now.Add(time.Hour))

	highest, err := store.HighestBid(ctx, auction.ID)
	require.NoError(t, err)
	require.Equal(t, "10.00", highest.String())

	bid, err := store.Append(ctx, BidSubmission{
		AuctionID: auction.ID,
		BidderID:  "bidder-1",
		Amount:    domain.MustMoney("11.00"),
		Now:       now,
	})
	require.NoError(t, err)
	require.NotEmpty(t, bid.ID)

	highest, err = store.HighestBid(ctx, auction.ID)
	require.NoError(t, err)
	require.Equal(t, "11.00", highest.String())

	_, err = store.Append(ctx, BidSubmission{
		AuctionID: auction.ID,
		BidderID:  "bidder-2",
		Amount:    domain.MustMoney("11.50"),
		Now:       now,
	})
	require.True(t, apperrors.HasCode(err, apperrors.CodeInsufficientBid))

	_, err = store.Append(ctx, BidSubmission{
		AuctionID: "missing",
		BidderID:  "bidder-1",
		Amount:    domain.MustMoney("11.00"),
		Now:       now,
	})
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestMemoryStoreAppendLazyCloses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auction := newOpenAuction(t, store, "author-1", deadline)

	_, err := store.Append(ctx, BidSubmission{
		AuctionID: auction.ID,
		BidderID:  "bidder-1",
		Amount:    domain.MustMoney("11.00"),
		Now:       deadline,
	})
	require.True(t, apperrors.HasCode(err, apperrors.CodeAuctionClosed))

	stored, err := store.GetByID(ctx, auction.ID)
	require.NoError(t, err)
	require.True(t, stored.Closed)
}

func TestMemoryStoreListByAuctionOrdering(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auction := newOpenAuction(t, store, "author-1", now.Add(time.Hour))

	amounts := []string{"11.00", "12.00", "13.50"}
	for i, amount := range amounts {
		_, err := store.Append(ctx, BidSubmission{
			AuctionID: auction.ID,
			BidderID:  fmt.Sprintf("bidder-%d", i),
			Amount:    domain.MustMoney(amount),
			Now:       now.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	bids, err := store.ListByAuction(ctx, auction.ID)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	require.Equal(t, "13.50", bids[0].Amount.String())
	require.Equal(t, "12.00", bids[1].Amount.String())
	require.Equal(t, "11.00", bids[2].Amount.String())
}

func TestMemoryStoreListWithFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	open := newOpenAuction(t, store, "author-1", now.Add(time.Hour))
	expired := newOpenAuction(t, store, "author-2", now.Add(time.Minute))
	_, err := store.CloseExpired(ctx, now.Add(2*time.Minute))
	require.NoError(t, err)

	_, err = store.Append(ctx, BidSubmission{
		AuctionID: open.ID,
		BidderID:  "bidder-1",
		Amount:    domain.MustMoney("15.00"),
		Now:       now,
	})
	require.NoError(t, err)

	// Default state is open only.
	listings, err := store.ListWithFilter(ctx, AuctionFilter{})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, open.ID, listings[0].Auction.ID)
	require.Equal(t, "15.00", listings[0].HighestBid.String())
	require.Equal(t, 1, listings[0].BidCount)

	listings, err = store.ListWithFilter(ctx, AuctionFilter{State: StateClosed})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, expired.ID, listings[0].Auction.ID)
	require.Equal(t, "10.00", listings[0].HighestBid.String())

	listings, err = store.ListWithFilter(ctx, AuctionFilter{State: StateAll})
	require.NoError(t, err)
	require.Len(t, listings, 2)

	author := "author-2"
	listings, err = store.ListWithFilter(ctx, AuctionFilter{State: StateAll, AuthorID: &author})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, expired.ID, listings[0].Auction.ID)

	minBid := domain.MustMoney("12.00")
	listings, err = store.ListWithFilter(ctx, AuctionFilter{State: StateAll, MinBid: &minBid})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, open.ID, listings[0].Auction.ID)

	term := "CAMERA"
	listings, err = store.ListWithFilter(ctx, AuctionFilter{State: StateAll, SearchTerm: &term})
	require.NoError(t, err)
	require.Len(t, listings, 2)

	term = "no such item"
	listings, err = store.ListWithFilter(ctx, AuctionFilter{State: StateAll, SearchTerm: &term})
	require.NoError(t, err)
	require.Empty(t, listings)
}

func TestMemoryStoreListWithFilterSortByHighestBid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	low := newOpenAuction(t, store, "author-1", now.Add(time.Hour))
	high := newOpenAuction(t, store, "author-2", now.Add(time.Hour))
	_, err := store.Append(ctx, BidSubmission{
		AuctionID: high.ID,
		BidderID:  "bidder-1",
		Amount:    domain.MustMoney("50.00"),
		Now:       now,
	})
	require.NoError(t, err)

	listings, err := store.ListWithFilter(ctx, AuctionFilter{SortBy: SortByHighestBid, SortDesc: true})
	require.NoError(t, err)
	require.Len(t, listings, 2)
	require.Equal(t, high.ID, listings[0].Auction.ID)
	require.Equal(t, low.ID, listings[1].Auction.ID)

	listings, err = store.ListWithFilter(ctx, AuctionFilter{SortBy: SortByHighestBid})
	require.NoError(t, err)
	require.Equal(t, low.ID, listings[0].Auction.ID)
}

func TestMemoryStoreCloseExpiredIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	newOpenAuction(t, store, "author-1", now)
	newOpenAuction(t, store, "author-2", now.Add(time.Hour))

	ids, err := store.CloseExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	ids, err = store.CloseExpired(ctx, now)
	require.NoError(t, err)
	require.Empty(t, ids)

	ids, err = store.CloseExpired(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, ids, 1)
}
