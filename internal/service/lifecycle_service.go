package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/auction-service/internal/cache"
	"github.com/spec-kit/auction-service/internal/events"
	"github.com/spec-kit/auction-service/internal/observability"
	"github.com/spec-kit/auction-service/internal/repository"
)

// LifecycleService transitions auctions from open to closed once their
// deadline passes, independent of request traffic.
type LifecycleService struct {
	auctions   repository.AuctionRepository
	dispatcher events.Dispatcher
	cache      *cache.Client
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewLifecycleService constructs the service.
func NewLifecycleService(auctions repository.AuctionRepository, dispatcher events.Dispatcher, cacheClient *cache.Client, metrics *observability.Metrics, logger *zap.Logger) *LifecycleService {
	return &LifecycleService{
		auctions:   auctions,
		dispatcher: dispatcher,
		cache:      cacheClient,
		metrics:    metrics,
		logger:     logger,
	}
}

// Sweep closes every open auction whose deadline is at or before now and
// returns the number closed. Repeated sweeps with the same or a later now
// are idempotent: an already-closed auction is never counted again. Uses the
// same deadline comparison as bid admission, so a sweep and an in-flight
// admission can never disagree about whether an auction is open.
func (s *LifecycleService) Sweep(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.auctions.CloseExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		s.cache.Delete(ctx, cache.AuctionKey(id))
		s.publishEvent(ctx, events.Event{
			Type:      events.EventAuctionClosed,
			AuctionID: id,
			Payload:   events.AuctionClosedPayload{Reason: "deadline_sweep"},
		})
	}

	s.metrics.RecordSweep(len(ids))
	if len(ids) > 0 {
		s.logger.Info("closed expired auctions", zap.Int("count", len(ids)))
	}
	return len(ids), nil
}

func (s *LifecycleService) publishEvent(ctx context.Context, event events.Event) {
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
