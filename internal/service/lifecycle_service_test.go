package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/auction-service/internal/domain"
	"github.com/spec-kit/auction-service/internal/events"
	"github.com/spec-kit/auction-service/internal/observability"
	"github.com/spec-kit/auction-service/internal/repository"
)

type closedEventRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *closedEventRecorder) record(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, event.AuctionID)
	return nil
}

func (r *closedEventRecorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func TestSweepClosesExpiredAuctions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := repository.NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	expired := &domain.Auction{
		AuthorID:      "author-1",
		Name:          "old lamp",
		Category:      domain.CategoryHome,
		StartingPrice: domain.MustMoney("5.00"),
		MinimalBid:    domain.MustMoney("1.00"),
		Deadline:      now.Add(-time.Minute),
	}
	open := &domain.Auction{
		AuthorID:      "author-1",
		Name:          "new lamp",
		Category:      domain.CategoryHome,
		StartingPrice: domain.MustMoney("5.00"),
		MinimalBid:    domain.MustMoney("1.00"),
		Deadline:      now.Add(time.Hour),
	}
	require.NoError(t, store.Create(ctx, expired))
	require.NoError(t, store.Create(ctx, open))

	dispatcher := events.NewInMemoryDispatcher()
	recorder := &closedEventRecorder{}
	dispatcher.Subscribe(events.EventAuctionClosed, recorder.record)

	svc := NewLifecycleService(store, dispatcher, nil, observability.NewMetrics(), zap.NewNop())

	closed, err := svc.Sweep(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, closed)
	require.Equal(t, []string{expired.ID}, recorder.seen())

	stored, err := store.GetByID(ctx, expired.ID)
	require.NoError(t, err)
	require.True(t, stored.Closed)

	stored, err = store.GetByID(ctx, open.ID)
	require.NoError(t, err)
	require.False(t, stored.Closed)
}

func TestSweepIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := repository.NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	auction := &domain.Auction{
		AuthorID:      "author-1",
		Name:          "garden chair",
		Category:      domain.CategoryHome,
		StartingPrice: domain.MustMoney("5.00"),
		MinimalBid:    domain.MustMoney("1.00"),
		Deadline:      now,
	}
	require.NoError(t, store.Create(ctx, auction))

	svc := NewLifecycleService(store, events.NewInMemoryDispatcher(), nil, observability.NewMetrics(), zap.NewNop())

	closed, err := svc.Sweep(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 1, closed)

	for i := 0; i < 3; i++ {
		closed, err = svc.Sweep(ctx, now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.Zero(t, closed)
	}
}
