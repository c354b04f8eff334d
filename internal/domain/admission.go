package domain

import (
	"time"

	apperrors "github.com/spec-kit/auction-service/pkg/util"
)

// ValidateBid applies the admission rules for a prospective bid, in order,
// short-circuiting at the first failure so every rejection carries a specific
// reason:
//
//  1. the bidder must not be the auction's author
//  2. the auction must still be open (deadline strictly in the future and not
//     already closed)
//  3. the amount must be at least the current highest bid plus the auction's
//     minimal increment
//
// highest must be read within the same atomic unit as the eventual append so
// that no concurrent bid is admitted against a superseded value.
func ValidateBid(auction *Auction, highest Money, bidderID string, amount Money, now time.Time) error {
	if auction.AuthorID == bidderID {
		return apperrors.NewSelfBid()
	}
	if !auction.IsOpenAt(now) {
		return apperrors.NewAuctionClosed()
	}
	minimalAllowed := highest.Add(auction.MinimalBid)
	if amount.LessThan(minimalAllowed) {
		return apperrors.NewInsufficientBid(minimalAllowed.String())
	}
	return nil
}
