package domain

import "time"

// Bid is one committed entry in an auction's ledger. Bids are append-only:
// once persisted they are never mutated or deleted by the service.
type Bid struct {
	ID        string
	AuctionID string
	BidderID  string
	Amount    Money
	PlacedOn  time.Time
}
