package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/auction-service/internal/cache"
	"github.com/spec-kit/auction-service/internal/domain"
	"github.com/spec-kit/auction-service/internal/events"
	"github.com/spec-kit/auction-service/internal/repository"
	apperrors "github.com/spec-kit/auction-service/pkg/util"
)

const (
	maxAuctionNameLen        = 50
	maxAuctionDescriptionLen = 500
	maxImagesPerAuction      = 10
	maxImageSizeBytes        = 5 * 1024 * 1024
)

// defaultMinimalBid applies when an auction is created without an explicit
// increment.
var defaultMinimalBid = domain.MustMoney("1.00")

// AuctionService coordinates auction creation and the read-side projections.
type AuctionService struct {
	auctions   repository.AuctionRepository
	ledger     repository.BidRepository
	images     repository.ImageRepository
	dispatcher events.Dispatcher
	cache      *cache.Client
	now        func() time.Time
}

// AuctionDependencies bundles repositories for the auction service.
type AuctionDependencies struct {
	AuctionRepo repository.AuctionRepository
	Ledger      repository.BidRepository
	ImageRepo   repository.ImageRepository
	Dispatcher  events.Dispatcher
	Cache       *cache.Client
}

// AuctionCreateInput describes auction creation payload. Amounts arrive as
// strings and are parsed into exact decimals before any comparison.
type AuctionCreateInput struct {
	Name          string
	Description   string
	Category      domain.AuctionCategory
	StartingPrice string
	MinimalBid    string
	Deadline      time.Time
}

// AuctionListQuery describes listing filters and ordering.
type AuctionListQuery struct {
	Category   *domain.AuctionCategory
	State      repository.ListingState
	SearchTerm *string
	MinBid     *domain.Money
	MaxBid     *domain.Money
	SortBy     repository.SortField
	SortDesc   bool
	Limit      int
	Offset     int
}

// ImageInput defines image metadata to attach to an auction.
type ImageInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// AuctionDetail is the full read model for one auction.
type AuctionDetail struct {
	Auction    domain.Auction
	HighestBid domain.Money
	Bids       []domain.Bid
	Images     []domain.AuctionImage
}

// auctionSnapshot is the cached slice of the detail view. Bids and images are
// always read fresh; only the auction row and its highest bid are cached.
type auctionSnapshot struct {
	Auction    domain.Auction
	HighestBid domain.Money
}

// NewAuctionService constructs the service.
func NewAuctionService(deps AuctionDependencies) *AuctionService {
	return &AuctionService{
		auctions:   deps.AuctionRepo,
		ledger:     deps.Ledger,
		images:     deps.ImageRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		now:        time.Now,
	}
}

// CreateAuction validates and stores a new listing for the author.
func (s *AuctionService) CreateAuction(ctx context.Context, authorID string, input AuctionCreateInput) (*domain.Auction, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxAuctionNameLen {
		return nil, apperrors.NewValidationError("name is required and must be at most 50 characters", nil)
	}
	description := strings.TrimSpace(input.Description)
	if len(description) > maxAuctionDescriptionLen {
		return nil, apperrors.NewValidationError("description must be at most 500 characters", nil)
	}
	if !input.Category.IsValid() {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}

	startingPrice, err := domain.NewMoney(input.StartingPrice)
	if err != nil || !startingPrice.IsPositive() {
		return nil, apperrors.NewValidationError("starting_price must be a positive amount with at most two decimal places", nil)
	}

	minimalBid := defaultMinimalBid
	if strings.TrimSpace(input.MinimalBid) != "" {
		minimalBid, err = domain.NewMoney(input.MinimalBid)
		if err != nil || !minimalBid.IsPositive() {
			return nil, apperrors.NewValidationError("minimal_bid must be a positive amount with at most two decimal places", nil)
		}
	}

	if !input.Deadline.After(s.now()) {
		return nil, apperrors.NewValidationError("deadline must be in the future", nil)
	}

	auction := &domain.Auction{
		AuthorID:      authorID,
		Name:          name,
		Description:   description,
		Category:      input.Category,
		StartingPrice: startingPrice,
		MinimalBid:    minimalBid,
		Deadline:      input.Deadline,
	}
	if err := s.auctions.Create(ctx, auction); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventAuctionCreated,
		AuctionID: auction.ID,
		ActorID:   authorID,
		Payload: events.AuctionCreatedPayload{
			Name:          auction.Name,
			Category:      auction.Category,
			StartingPrice: auction.StartingPrice,
			Deadline:      auction.Deadline,
		},
	})
	return auction, nil
}

// GetAuction assembles the detail view. The auction row and highest bid may
// be served from the fail-safe cache; the database stays authoritative and
// every committed bid invalidates the entry.
func (s *AuctionService) GetAuction(ctx context.Context, auctionID string) (*AuctionDetail, error) {
	var snapshot auctionSnapshot
	if !s.cache.GetJSON(ctx, cache.AuctionKey(auctionID), &snapshot) {
		auction, err := s.auctions.GetByID(ctx, auctionID)
		if err != nil {
			return nil, err
		}
		highest, err := s.ledger.HighestBid(ctx, auctionID)
		if err != nil {
			return nil, err
		}
		snapshot = auctionSnapshot{Auction: *auction, HighestBid: highest}
		s.cache.SetJSON(ctx, cache.AuctionKey(auctionID), snapshot)
	}

	bids, err := s.ledger.ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	images, err := s.images.ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	return &AuctionDetail{
		Auction:    snapshot.Auction,
		HighestBid: snapshot.HighestBid,
		Bids:       bids,
		Images:     images,
	}, nil
}

// ListAuctions runs the ranking/query projection over the listing filters.
func (s *AuctionService) ListAuctions(ctx context.Context, query AuctionListQuery) ([]repository.AuctionListing, error) {
	if query.Category != nil && !query.Category.IsValid() {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": *query.Category})
	}
	filter := repository.AuctionFilter{
		Category:   query.Category,
		State:      query.State,
		SearchTerm: query.SearchTerm,
		MinBid:     query.MinBid,
		MaxBid:     query.MaxBid,
		SortBy:     query.SortBy,
		SortDesc:   query.SortDesc,
		Limit:      query.Limit,
		Offset:     query.Offset,
	}
	return s.auctions.ListWithFilter(ctx, filter)
}

// AddImages attaches image metadata to the author's own auction.
func (s *AuctionService) AddImages(ctx context.Context, userID, auctionID string, inputs []ImageInput) ([]domain.AuctionImage, error) {
	auction, err := s.auctions.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if auction.AuthorID != userID {
		return nil, apperrors.NewForbidden("only the auction author may add images")
	}
	if len(inputs) == 0 {
		return nil, apperrors.NewValidationError("at least one image is required", nil)
	}

	existing, err := s.images.ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if len(existing)+len(inputs) > maxImagesPerAuction {
		return nil, apperrors.NewValidationError("at most 10 images allowed per auction", nil)
	}
	for _, input := range inputs {
		if input.SizeBytes > maxImageSizeBytes {
			return nil, apperrors.NewValidationError("image too large (max 5MB)", map[string]any{"file_name": input.FileName})
		}
	}

	created := make([]domain.AuctionImage, 0, len(inputs))
	for _, input := range inputs {
		image := &domain.AuctionImage{
			AuctionID:  auctionID,
			StorageKey: input.StorageKey,
			FileName:   input.FileName,
			MimeType:   input.MimeType,
			SizeBytes:  input.SizeBytes,
		}
		if err := s.images.Create(ctx, image); err != nil {
			return nil, err
		}
		created = append(created, *image)
	}
	return created, nil
}

func (s *AuctionService) publishEvent(ctx context.Context, event events.Event) {
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
