package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auction-service/internal/api/dto"
	"github.com/spec-kit/auction-service/internal/auth"
	"github.com/spec-kit/auction-service/internal/domain"
	"github.com/spec-kit/auction-service/internal/repository"
	"github.com/spec-kit/auction-service/internal/service"
	apperrors "github.com/spec-kit/auction-service/pkg/util"
)

// AuctionsHandler manages auction and bid endpoints.
type AuctionsHandler struct {
	auctions *service.AuctionService
	bids     *service.BidService
}

// NewAuctionsHandler constructs handler.
func NewAuctionsHandler(auctionService *service.AuctionService, bidService *service.BidService) *AuctionsHandler {
	return &AuctionsHandler{auctions: auctionService, bids: bidService}
}

// CreateAuction POST /auctions.
func (h *AuctionsHandler) CreateAuction(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateAuctionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.StartingPrice == "" || req.Deadline.IsZero() {
		return apperrors.NewValidationError("name, starting_price, deadline required", nil)
	}

	input := service.AuctionCreateInput{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		StartingPrice: req.StartingPrice,
		MinimalBid:    req.MinimalBid,
		Deadline:      req.Deadline,
	}
	auction, err := h.auctions.CreateAuction(c.Context(), principal.User.ID, input)
	if err != nil {
		return err
	}
	summary := auctionSummary(auction, auction.StartingPrice, 0)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": summary})
}

// ListAuctions GET /auctions.
func (h *AuctionsHandler) ListAuctions(c *fiber.Ctx) error {
	query, err := parseAuctionListQuery(c)
	if err != nil {
		return err
	}
	listings, err := h.auctions.ListAuctions(c.Context(), query)
	if err != nil {
		return err
	}
	items := make([]dto.AuctionSummary, 0, len(listings))
	for i := range listings {
		items = append(items, auctionSummary(&listings[i].Auction, listings[i].HighestBid, listings[i].BidCount))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetAuction GET /auctions/:id.
func (h *AuctionsHandler) GetAuction(c *fiber.Ctx) error {
	detail, err := h.auctions.GetAuction(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": auctionDetail(detail)})
}

// ListBids GET /auctions/:id/bids.
func (h *AuctionsHandler) ListBids(c *fiber.Ctx) error {
	bids, err := h.bids.ListBids(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.BidResponse, 0, len(bids))
	for i := range bids {
		items = append(items, bidResponse(&bids[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// PlaceBid POST /auctions/:id/bids.
func (h *AuctionsHandler) PlaceBid(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.PlaceBidRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	amount, err := domain.NewMoney(req.Amount)
	if err != nil {
		return apperrors.NewValidationError("amount must be a decimal with at most two fractional digits", nil)
	}

	bid, err := h.bids.SubmitBid(c.Context(), c.Params("id"), principal.User.ID, amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": bidResponse(bid)})
}

// AddImages POST /auctions/:id/images.
func (h *AuctionsHandler) AddImages(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AddImagesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	inputs := make([]service.ImageInput, 0, len(req.Images))
	for _, img := range req.Images {
		inputs = append(inputs, service.ImageInput{
			StorageKey: img.StorageKey,
			FileName:   img.FileName,
			MimeType:   img.MimeType,
			SizeBytes:  img.SizeBytes,
		})
	}
	images, err := h.auctions.AddImages(c.Context(), principal.User.ID, c.Params("id"), inputs)
	if err != nil {
		return err
	}
	items := make([]dto.ImageResponse, 0, len(images))
	for i := range images {
		items = append(items, imageResponse(&images[i]))
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": items})
}

func parseAuctionListQuery(c *fiber.Ctx) (service.AuctionListQuery, error) {
	query := service.AuctionListQuery{}

	if category := c.Query("category"); category != "" {
		cat := domain.AuctionCategory(strings.ToUpper(strings.TrimSpace(category)))
		query.Category = &cat
	}
	switch state := c.Query("state", string(repository.StateOpen)); repository.ListingState(state) {
	case repository.StateOpen, repository.StateClosed, repository.StateAll:
		query.State = repository.ListingState(state)
	default:
		return query, apperrors.NewValidationError("state must be one of open, closed, all", nil)
	}
	if search := c.Query("search"); search != "" {
		query.SearchTerm = &search
	}
	if minBid := c.Query("min_bid"); minBid != "" {
		parsed, err := domain.NewMoney(minBid)
		if err != nil {
			return query, apperrors.NewValidationError("invalid min_bid", nil)
		}
		query.MinBid = &parsed
	}
	if maxBid := c.Query("max_bid"); maxBid != "" {
		parsed, err := domain.NewMoney(maxBid)
		if err != nil {
			return query, apperrors.NewValidationError("invalid max_bid", nil)
		}
		query.MaxBid = &parsed
	}

	switch sortBy := c.Query("sort", string(repository.SortByCreatedOn)); repository.SortField(sortBy) {
	case repository.SortByCreatedOn, repository.SortByHighestBid, repository.SortByDeadline:
		query.SortBy = repository.SortField(sortBy)
	default:
		return query, apperrors.NewValidationError("sort must be one of created_on, highest_bid, deadline", nil)
	}
	query.SortDesc = c.Query("order", "desc") != "asc"

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	query.Offset = (page - 1) * pageSize
	query.Limit = pageSize
	return query, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func auctionSummary(auction *domain.Auction, highest domain.Money, bidCount int) dto.AuctionSummary {
	return dto.AuctionSummary{
		ID:            auction.ID,
		AuthorID:      auction.AuthorID,
		Name:          auction.Name,
		Category:      auction.Category,
		StartingPrice: auction.StartingPrice,
		MinimalBid:    auction.MinimalBid,
		HighestBid:    highest,
		BidCount:      bidCount,
		CreatedOn:     auction.CreatedOn,
		Deadline:      auction.Deadline,
		Closed:        auction.Closed,
	}
}

func auctionDetail(detail *service.AuctionDetail) dto.AuctionDetailResponse {
	bids := make([]dto.BidResponse, 0, len(detail.Bids))
	for i := range detail.Bids {
		bids = append(bids, bidResponse(&detail.Bids[i]))
	}
	images := make([]dto.ImageResponse, 0, len(detail.Images))
	for i := range detail.Images {
		images = append(images, imageResponse(&detail.Images[i]))
	}
	return dto.AuctionDetailResponse{
		ID:            detail.Auction.ID,
		AuthorID:      detail.Auction.AuthorID,
		Name:          detail.Auction.Name,
		Description:   detail.Auction.Description,
		Category:      detail.Auction.Category,
		StartingPrice: detail.Auction.StartingPrice,
		MinimalBid:    detail.Auction.MinimalBid,
		HighestBid:    detail.HighestBid,
		CreatedOn:     detail.Auction.CreatedOn,
		Deadline:      detail.Auction.Deadline,
		Closed:        detail.Auction.Closed,
		Bids:          bids,
		Images:        images,
	}
}

func bidResponse(bid *domain.Bid) dto.BidResponse {
	return dto.BidResponse{
		ID:       bid.ID,
		BidderID: bid.BidderID,
		Amount:   bid.Amount,
		PlacedOn: bid.PlacedOn,
	}
}

func imageResponse(image *domain.AuctionImage) dto.ImageResponse {
	return dto.ImageResponse{
		ID:        image.ID,
		FileName:  image.FileName,
		MimeType:  image.MimeType,
		SizeBytes: image.SizeBytes,
	}
}
