package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/auction-service/pkg/util"
)

func testAuction(deadline time.Time) *Auction {
	return &Auction{
		ID:            "auction-1",
		AuthorID:      "author-1",
		Name:          "vintage synth",
		Category:      CategoryMusic,
		StartingPrice: MustMoney("10.00"),
		MinimalBid:    MustMoney("1.00"),
		Deadline:      deadline,
	}
}

func TestValidateBid(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	open := now.Add(time.Hour)

	tests := []struct {
		name     string
		auction  *Auction
		highest  string
		bidderID string
		amount   string
		wantCode string
	}{
		{
			name:     "first bid at starting plus increment",
			auction:  testAuction(open),
			highest:  "10.00",
			bidderID: "bidder-1",
			amount:   "11.00",
		},
		{
			name:     "exact minimal allowed is admitted",
			auction:  testAuction(open),
			highest:  "11.00",
			bidderID: "bidder-2",
			amount:   "12.00",
		},
		{
			name:     "one cent below minimal is rejected",
			auction:  testAuction(open),
			highest:  "11.00",
			bidderID: "bidder-2",
			amount:   "11.99",
			wantCode: apperrors.CodeInsufficientBid,
		},
		{
			name:     "author cannot bid",
			auction:  testAuction(open),
			highest:  "10.00",
			bidderID: "author-1",
			amount:   "11.00",
			wantCode: apperrors.CodeSelfBid,
		},
		{
			name:     "deadline passed",
			auction:  testAuction(now),
			highest:  "10.00",
			bidderID: "bidder-1",
			amount:   "11.00",
			wantCode: apperrors.CodeAuctionClosed,
		},
		{
			name: "closed flag set",
			auction: func() *Auction {
				a := testAuction(open)
				a.Closed = true
				return a
			}(),
			highest:  "10.00",
			bidderID: "bidder-1",
			amount:   "11.00",
			wantCode: apperrors.CodeAuctionClosed,
		},
		{
			name:     "self bid reported before closed",
			auction:  testAuction(now),
			highest:  "10.00",
			bidderID: "author-1",
			amount:   "11.00",
			wantCode: apperrors.CodeSelfBid,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateBid(tc.auction, MustMoney(tc.highest), tc.bidderID, MustMoney(tc.amount), now)
			if tc.wantCode == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.True(t, apperrors.HasCode(err, tc.wantCode), "expected code %s, got %v", tc.wantCode, err)
		})
	}
}

func TestInsufficientBidCarriesMinimalAllowed(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := ValidateBid(testAuction(now.Add(time.Hour)), MustMoney("11.00"), "bidder-1", MustMoney("11.50"), now)
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, apperrors.CodeInsufficientBid, domainErr.Code)
	require.Equal(t, "12.00", domainErr.Details["minimal_allowed"])
}

func TestIsOpenAt(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auction := testAuction(deadline)

	require.True(t, auction.IsOpenAt(deadline.Add(-time.Second)))
	require.False(t, auction.IsOpenAt(deadline))
	require.False(t, auction.IsOpenAt(deadline.Add(time.Second)))

	auction.Closed = true
	require.False(t, auction.IsOpenAt(deadline.Add(-time.Hour)))
}
