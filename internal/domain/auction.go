package domain

import "time"

// AuctionCategory enumerates item categories.
type AuctionCategory string

const (
	CategoryHome        AuctionCategory = "HOME"
	CategorySports      AuctionCategory = "SPORTS"
	CategoryMusic       AuctionCategory = "MUSIC"
	CategoryElectronics AuctionCategory = "ELECTRONICS"
	CategoryClothing    AuctionCategory = "CLOTHING"
	CategoryOther       AuctionCategory = "OTHER"
)

// Categories lists every valid auction category.
var Categories = []AuctionCategory{
	CategoryHome,
	CategorySports,
	CategoryMusic,
	CategoryElectronics,
	CategoryClothing,
	CategoryOther,
}

// IsValid reports whether the category is a known member of the enum.
func (c AuctionCategory) IsValid() bool {
	for _, candidate := range Categories {
		if c == candidate {
			return true
		}
	}
	return false
}

// Auction is the aggregate for a single item listing. CreatedOn is assigned
// once at creation; Closed only ever transitions false to true.
type Auction struct {
	ID            string
	AuthorID      string
	Name          string
	Description   string
	Category      AuctionCategory
	StartingPrice Money
	MinimalBid    Money
	CreatedOn     time.Time
	Deadline      time.Time
	Closed        bool
}

// IsOpenAt reports whether the auction still accepts bids at the given
// instant. The deadline comparison is authoritative: an expired auction is
// treated as closed even if the sweep has not flipped the flag yet.
func (a *Auction) IsOpenAt(now time.Time) bool {
	return !a.Closed && now.Before(a.Deadline)
}

// EffectiveHighestBid returns the current winning price: the highest
// committed bid amount, or the starting price when no bids exist.
func (a *Auction) EffectiveHighestBid(maxBid *Money) Money {
	if maxBid == nil {
		return a.StartingPrice
	}
	return *maxBid
}

// AuctionImage stores metadata for an image attached to an auction. The blob
// itself lives in external storage addressed by StorageKey.
type AuctionImage struct {
	ID         string
	AuctionID  string
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}
