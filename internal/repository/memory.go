package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/auction-service/internal/domain"
	apperrors "github.com/spec-kit/auction-service/pkg/util"
)

// MemoryStore is a concurrency-safe in-memory implementation of
// AuctionRepository and BidRepository. It backs tests and DSN-less local
// runs with the same admission semantics as the Postgres ledger: the store
// mutex is the serialization point, so a validating read can never be
// superseded before its append commits.
type MemoryStore struct {
	mu       sync.RWMutex
	auctions map[string]*domain.Auction
	bids     map[string][]domain.Bid
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions: make(map[string]*domain.Auction),
		bids:     make(map[string][]domain.Bid),
	}
}

var _ AuctionRepository = (*MemoryStore)(nil)
var _ BidRepository = (*MemoryStore)(nil)

// Create stores an auction, assigning id and creation timestamp.
func (s *MemoryStore) Create(_ context.Context, auction *domain.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if auction.ID == "" {
		auction.ID = uuid.NewString()
	}
	if auction.CreatedOn.IsZero() {
		auction.CreatedOn = time.Now().UTC()
	}
	copied := *auction
	s.auctions[auction.ID] = &copied
	return nil
}

// GetByID returns a copy of the stored auction.
func (s *MemoryStore) GetByID(_ context.Context, id string) (*domain.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(id)
}

func (s *MemoryStore) getLocked(id string) (*domain.Auction, error) {
	stored, ok := s.auctions[id]
	if !ok {
		return nil, apperrors.NewNotFound("auction", map[string]any{"auction_id": id})
	}
	copied := *stored
	return &copied, nil
}

// Append validates and commits a bid under the store lock.
func (s *MemoryStore) Append(_ context.Context, sub BidSubmission) (*domain.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.auctions[sub.AuctionID]
	if !ok {
		return nil, apperrors.NewNotFound("auction", map[string]any{"auction_id": sub.AuctionID})
	}
	if !stored.Closed && !sub.Now.Before(stored.Deadline) {
		stored.Closed = true
	}

	highest := s.highestLocked(stored)
	if err := domain.ValidateBid(stored, highest, sub.BidderID, sub.Amount, sub.Now); err != nil {
		return nil, err
	}

	bid := domain.Bid{
		ID:        uuid.NewString(),
		AuctionID: sub.AuctionID,
		BidderID:  sub.BidderID,
		Amount:    sub.Amount,
		PlacedOn:  sub.Now,
	}
	s.bids[sub.AuctionID] = append(s.bids[sub.AuctionID], bid)
	return &bid, nil
}

func (s *MemoryStore) highestLocked(auction *domain.Auction) domain.Money {
	bids := s.bids[auction.ID]
	if len(bids) == 0 {
		return auction.StartingPrice
	}
	highest := bids[0].Amount
	for _, bid := range bids[1:] {
		if bid.Amount.Cmp(highest) > 0 {
			highest = bid.Amount
		}
	}
	return highest
}

// HighestBid returns the current winning price for the auction.
func (s *MemoryStore) HighestBid(_ context.Context, auctionID string) (domain.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.auctions[auctionID]
	if !ok {
		return domain.Money{}, apperrors.NewNotFound("auction", map[string]any{"auction_id": auctionID})
	}
	return s.highestLocked(stored), nil
}

// ListByAuction returns bids ordered by amount descending, earliest first on
// ties.
func (s *MemoryStore) ListByAuction(_ context.Context, auctionID string) ([]domain.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := append([]domain.Bid(nil), s.bids[auctionID]...)
	sort.SliceStable(bids, func(i, j int) bool {
		cmp := bids[i].Amount.Cmp(bids[j].Amount)
		if cmp != 0 {
			return cmp > 0
		}
		return bids[i].PlacedOn.Before(bids[j].PlacedOn)
	})
	return bids, nil
}

// ListWithFilter evaluates the ranking projection in memory.
func (s *MemoryStore) ListWithFilter(_ context.Context, filter AuctionFilter) ([]AuctionListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var listings []AuctionListing
	for _, stored := range s.auctions {
		if !matchesFilter(stored, filter) {
			continue
		}
		highest := s.highestLocked(stored)
		if filter.MinBid != nil && highest.LessThan(*filter.MinBid) {
			continue
		}
		if filter.MaxBid != nil && filter.MaxBid.LessThan(highest) {
			continue
		}
		listings = append(listings, AuctionListing{
			Auction:    *stored,
			HighestBid: highest,
			BidCount:   len(s.bids[stored.ID]),
		})
	}

	sortListings(listings, filter.SortBy, filter.SortDesc || filter.SortBy == "")

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(listings) {
		return nil, nil
	}
	listings = listings[offset:]
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit < len(listings) {
		listings = listings[:limit]
	}
	return listings, nil
}

func matchesFilter(auction *domain.Auction, filter AuctionFilter) bool {
	switch filter.State {
	case StateClosed:
		if !auction.Closed {
			return false
		}
	case StateAll:
	default:
		if auction.Closed {
			return false
		}
	}
	if filter.Category != nil && auction.Category != *filter.Category {
		return false
	}
	if filter.AuthorID != nil && auction.AuthorID != *filter.AuthorID {
		return false
	}
	if filter.SearchTerm != nil {
		term := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
		if term != "" && !strings.Contains(strings.ToLower(auction.Name), term) {
			return false
		}
	}
	return true
}

func sortListings(listings []AuctionListing, field SortField, desc bool) {
	less := func(i, j int) bool {
		switch field {
		case SortByHighestBid:
			return listings[i].HighestBid.LessThan(listings[j].HighestBid)
		case SortByDeadline:
			return listings[i].Auction.Deadline.Before(listings[j].Auction.Deadline)
		default:
			return listings[i].Auction.CreatedOn.Before(listings[j].Auction.CreatedOn)
		}
	}
	if desc {
		sort.SliceStable(listings, func(i, j int) bool { return less(j, i) })
	} else {
		sort.SliceStable(listings, less)
	}
}

// CloseExpired flips open auctions past their deadline and returns their ids.
func (s *MemoryStore) CloseExpired(_ context.Context, now time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for _, stored := range s.auctions {
		if !stored.Closed && !now.Before(stored.Deadline) {
			stored.Closed = true
			ids = append(ids, stored.ID)
		}
	}
	return ids, nil
}
