package dto

import (
	"time"

	"github.com/spec-kit/auction-service/internal/domain"
)

// CreateAuctionRequest payload. Amounts travel as strings so no precision is
// lost in transport.
type CreateAuctionRequest struct {
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	Category      domain.AuctionCategory `json:"category"`
	StartingPrice string                 `json:"starting_price"`
	MinimalBid    string                 `json:"minimal_bid"`
	Deadline      time.Time              `json:"deadline"`
}

// AuctionSummary response for listings.
type AuctionSummary struct {
	ID            string                 `json:"id"`
	AuthorID      string                 `json:"author_id"`
	Name          string                 `json:"name"`
	Category      domain.AuctionCategory `json:"category"`
	StartingPrice domain.Money           `json:"starting_price"`
	MinimalBid    domain.Money           `json:"minimal_bid"`
	HighestBid    domain.Money           `json:"highest_bid"`
	BidCount      int                    `json:"bid_count"`
	CreatedOn     time.Time              `json:"created_on"`
	Deadline      time.Time              `json:"deadline"`
	Closed        bool                   `json:"closed"`
}

// AuctionDetailResponse provides full auction info.
type AuctionDetailResponse struct {
	ID            string                 `json:"id"`
	AuthorID      string                 `json:"author_id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	Category      domain.AuctionCategory `json:"category"`
	StartingPrice domain.Money           `json:"starting_price"`
	MinimalBid    domain.Money           `json:"minimal_bid"`
	HighestBid    domain.Money           `json:"highest_bid"`
	CreatedOn     time.Time              `json:"created_on"`
	Deadline      time.Time              `json:"deadline"`
	Closed        bool                   `json:"closed"`
	Bids          []BidResponse          `json:"bids"`
	Images        []ImageResponse        `json:"images"`
}

// ImageResponse metadata.
type ImageResponse struct {
	ID        string `json:"id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// AddImagesRequest payload.
type AddImagesRequest struct {
	Images []ImageRequest `json:"images"`
}

// ImageRequest describes image metadata input.
type ImageRequest struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}
