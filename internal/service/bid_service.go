package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/auction-service/internal/cache"
	"github.com/spec-kit/auction-service/internal/config"
	"github.com/spec-kit/auction-service/internal/domain"
	"github.com/spec-kit/auction-service/internal/events"
	"github.com/spec-kit/auction-service/internal/observability"
	"github.com/spec-kit/auction-service/internal/repository"
	apperrors "github.com/spec-kit/auction-service/pkg/util"
)

// BidService is the bid admission controller: it validates prospective bids
// against auction state and commits accepted ones to the ledger.
type BidService struct {
	ledger     repository.BidRepository
	auctions   repository.AuctionRepository
	dispatcher events.Dispatcher
	cache      *cache.Client
	metrics    *observability.Metrics
	maxRetries int
	now        func() time.Time
}

// BidDependencies bundles collaborators for the bid service.
type BidDependencies struct {
	Ledger      repository.BidRepository
	AuctionRepo repository.AuctionRepository
	Dispatcher  events.Dispatcher
	Cache       *cache.Client
	Metrics     *observability.Metrics
}

// NewBidService constructs the service.
func NewBidService(cfg config.BiddingConfig, deps BidDependencies) *BidService {
	retries := cfg.SubmitMaxRetries
	if retries <= 0 {
		retries = 3
	}
	return &BidService{
		ledger:     deps.Ledger,
		auctions:   deps.AuctionRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		metrics:    deps.Metrics,
		maxRetries: retries,
		now:        time.Now,
	}
}

// SubmitBid validates and commits one bid. The ledger append is atomic with
// its validating read, so concurrent submissions on the same auction are
// serialized and no admitted bid can undercut the increment rule. Transient
// transaction aborts are retried up to the configured bound before a
// conflict error is surfaced to the caller.
func (s *BidService) SubmitBid(ctx context.Context, auctionID, bidderID string, amount domain.Money) (*domain.Bid, error) {
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be greater than zero", nil)
	}

	var bid *domain.Bid
	var err error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		bid, err = s.ledger.Append(ctx, repository.BidSubmission{
			AuctionID: auctionID,
			BidderID:  bidderID,
			Amount:    amount,
			Now:       s.now(),
		})
		if err == nil || !repository.IsTransientTxError(err) {
			break
		}
	}
	if err != nil {
		s.metrics.RecordBidOutcome(false)
		if repository.IsTransientTxError(err) {
			return nil, apperrors.NewTransientConflict()
		}
		return nil, err
	}

	s.metrics.RecordBidOutcome(true)
	s.cache.Delete(ctx, cache.AuctionKey(auctionID))
	s.publishEvent(ctx, events.Event{
		Type:      events.EventBidPlaced,
		AuctionID: auctionID,
		ActorID:   bidderID,
		Payload: events.BidPlacedPayload{
			BidID:    bid.ID,
			BidderID: bid.BidderID,
			Amount:   bid.Amount,
		},
	})
	return bid, nil
}

// HighestBid returns the auction's current winning price.
func (s *BidService) HighestBid(ctx context.Context, auctionID string) (domain.Money, error) {
	return s.ledger.HighestBid(ctx, auctionID)
}

// ListBids returns the auction's full bid history, highest first.
func (s *BidService) ListBids(ctx context.Context, auctionID string) ([]domain.Bid, error) {
	if _, err := s.auctions.GetByID(ctx, auctionID); err != nil {
		return nil, err
	}
	return s.ledger.ListByAuction(ctx, auctionID)
}

func (s *BidService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
