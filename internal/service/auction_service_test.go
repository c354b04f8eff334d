package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auction-service/internal/domain"
	"github.com/spec-kit/auction-service/internal/events"
	"github.com/spec-kit/auction-service/internal/repository"
	apperrors "github.com/spec-kit/auction-service/pkg/util"
)

type memoryImageRepo struct {
	mu     sync.Mutex
	images map[string][]domain.AuctionImage
}

func newMemoryImageRepo() *memoryImageRepo {
	return &memoryImageRepo{images: make(map[string][]domain.AuctionImage)}
}

func (r *memoryImageRepo) Create(_ context.Context, image *domain.AuctionImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	image.ID = uuid.NewString()
	image.CreatedAt = time.Now().UTC()
	r.images[image.AuctionID] = append(r.images[image.AuctionID], *image)
	return nil
}

func (r *memoryImageRepo) ListByAuction(_ context.Context, auctionID string) ([]domain.AuctionImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuctionImage(nil), r.images[auctionID]...), nil
}

func newAuctionFixture(t *testing.T) (*AuctionService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewAuctionService(AuctionDependencies{
		AuctionRepo: store,
		Ledger:      store,
		ImageRepo:   newMemoryImageRepo(),
		Dispatcher:  events.NewInMemoryDispatcher(),
	})
	return svc, store
}

func validCreateInput(deadline time.Time) AuctionCreateInput {
	return AuctionCreateInput{
		Name:          "antique desk",
		Description:   "oak, early 1900s",
		Category:      domain.CategoryHome,
		StartingPrice: "25.00",
		Deadline:      deadline,
	}
}

func TestCreateAuction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newAuctionFixture(t)
	svc.now = func() time.Time { return now }

	auction, err := svc.CreateAuction(ctx, "author-1", validCreateInput(now.Add(time.Hour)))
	require.NoError(t, err)
	require.NotEmpty(t, auction.ID)
	require.Equal(t, "25.00", auction.StartingPrice.String())
	// Minimal bid defaults to 1.00 when omitted.
	require.Equal(t, "1.00", auction.MinimalBid.String())
	require.False(t, auction.Closed)
}

func TestCreateAuctionValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		mutate func(*AuctionCreateInput)
	}{
		{name: "empty name", mutate: func(in *AuctionCreateInput) { in.Name = "  " }},
		{name: "name too long", mutate: func(in *AuctionCreateInput) { in.Name = strings.Repeat("x", 51) }},
		{name: "description too long", mutate: func(in *AuctionCreateInput) { in.Description = strings.Repeat("x", 501) }},
		{name: "unknown category", mutate: func(in *AuctionCreateInput) { in.Category = "GADGETS" }},
		{name: "zero starting price", mutate: func(in *AuctionCreateInput) { in.StartingPrice = "0" }},
		{name: "negative starting price", mutate: func(in *AuctionCreateInput) { in.StartingPrice = "-5.00" }},
		{name: "three decimal starting price", mutate: func(in *AuctionCreateInput) { in.StartingPrice = "5.001" }},
		{name: "zero minimal bid", mutate: func(in *AuctionCreateInput) { in.MinimalBid = "0" }},
		{name: "deadline in past", mutate: func(in *AuctionCreateInput) { in.Deadline = now.Add(-time.Minute) }},
		{name: "deadline exactly now", mutate: func(in *AuctionCreateInput) { in.Deadline = now }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, _ := newAuctionFixture(t)
			svc.now = func() time.Time { return now }

			input := validCreateInput(future)
			tc.mutate(&input)
			_, err := svc.CreateAuction(ctx, "author-1", input)
			require.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed), "got %v", err)
		})
	}
}

func TestGetAuctionDetail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newAuctionFixture(t)
	svc.now = func() time.Time { return now }

	auction, err := svc.CreateAuction(ctx, "author-1", validCreateInput(now.Add(time.Hour)))
	require.NoError(t, err)

	detail, err := svc.GetAuction(ctx, auction.ID)
	require.NoError(t, err)
	require.Equal(t, "25.00", detail.HighestBid.String())
	require.Empty(t, detail.Bids)

	_, err = store.Append(ctx, repository.BidSubmission{
		AuctionID: auction.ID,
		BidderID:  "bidder-1",
		Amount:    domain.MustMoney("26.00"),
		Now:       now,
	})
	require.NoError(t, err)

	detail, err = svc.GetAuction(ctx, auction.ID)
	require.NoError(t, err)
	require.Equal(t, "26.00", detail.HighestBid.String())
	require.Len(t, detail.Bids, 1)

	_, err = svc.GetAuction(ctx, "missing")
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestAddImages(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newAuctionFixture(t)
	svc.now = func() time.Time { return now }

	auction, err := svc.CreateAuction(ctx, "author-1", validCreateInput(now.Add(time.Hour)))
	require.NoError(t, err)

	input := ImageInput{StorageKey: "k1", FileName: "front.jpg", MimeType: "image/jpeg", SizeBytes: 1024}

	_, err = svc.AddImages(ctx, "someone-else", auction.ID, []ImageInput{input})
	require.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = svc.AddImages(ctx, "author-1", auction.ID, nil)
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	big := input
	big.SizeBytes = 6 * 1024 * 1024
	_, err = svc.AddImages(ctx, "author-1", auction.ID, []ImageInput{big})
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	created, err := svc.AddImages(ctx, "author-1", auction.ID, []ImageInput{input})
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.NotEmpty(t, created[0].ID)

	batch := make([]ImageInput, 10)
	for i := range batch {
		batch[i] = input
	}
	_, err = svc.AddImages(ctx, "author-1", auction.ID, batch)
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}
