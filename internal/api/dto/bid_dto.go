package dto

import (
	"time"

	"github.com/spec-kit/auction-service/internal/domain"
)

// PlaceBidRequest payload. The amount is a decimal string.
type PlaceBidRequest struct {
	Amount string `json:"amount"`
}

// BidResponse represents one ledger entry.
type BidResponse struct {
	ID       string       `json:"id"`
	BidderID string       `json:"bidder_id"`
	Amount   domain.Money `json:"amount"`
	PlacedOn time.Time    `json:"placed_on"`
}
