package events

import (
	"time"

	"github.com/spec-kit/auction-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAuctionCreated EventType = "auction_created"
	EventBidPlaced      EventType = "bid_placed"
	EventAuctionClosed  EventType = "auction_closed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AuctionID string      `json:"auction_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AuctionCreatedPayload payload.
type AuctionCreatedPayload struct {
	Name          string                 `json:"name"`
	Category      domain.AuctionCategory `json:"category"`
	StartingPrice domain.Money           `json:"starting_price"`
	Deadline      time.Time              `json:"deadline"`
}

// BidPlacedPayload payload.
type BidPlacedPayload struct {
	BidID    string       `json:"bid_id"`
	BidderID string       `json:"bidder_id"`
	Amount   domain.Money `json:"amount"`
}

// AuctionClosedPayload payload. Reason distinguishes the periodic sweep from
// an admission-time lazy close.
type AuctionClosedPayload struct {
	Reason string `json:"reason"`
}
