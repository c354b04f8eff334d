package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/auction-service/internal/domain"
	apperrors "github.com/spec-kit/auction-service/pkg/util"
)

// ListingState selects which lifecycle states a listing query returns. The
// default is open-only; callers opt into closed or all explicitly.
type ListingState string

const (
	StateOpen   ListingState = "open"
	StateClosed ListingState = "closed"
	StateAll    ListingState = "all"
)

// SortField names the supported listing sort keys.
type SortField string

const (
	SortByCreatedOn  SortField = "created_on"
	SortByHighestBid SortField = "highest_bid"
	SortByDeadline   SortField = "deadline"
)

// AuctionFilter captures listing query parameters.
type AuctionFilter struct {
	Category   *domain.AuctionCategory
	State      ListingState
	SearchTerm *string
	MinBid     *domain.Money
	MaxBid     *domain.Money
	AuthorID   *string
	SortBy     SortField
	SortDesc   bool
	Limit      int
	Offset     int
}

// AuctionListing is the read-side projection of one auction: the auction plus
// its effective highest bid, computed with the same formula the ledger uses.
type AuctionListing struct {
	Auction    domain.Auction
	HighestBid domain.Money
	BidCount   int
}

// AuctionRepository encapsulates auction persistence.
type AuctionRepository interface {
	Create(ctx context.Context, auction *domain.Auction) error
	GetByID(ctx context.Context, id string) (*domain.Auction, error)
	ListWithFilter(ctx context.Context, filter AuctionFilter) ([]AuctionListing, error)
	CloseExpired(ctx context.Context, now time.Time) ([]string, error)
}

type auctionRepository struct {
	pool *pgxpool.Pool
}

// NewAuctionRepository returns a Postgres-backed implementation.
func NewAuctionRepository(pool *pgxpool.Pool) AuctionRepository {
	return &auctionRepository{pool: pool}
}

func (r *auctionRepository) Create(ctx context.Context, auction *domain.Auction) error {
	const query = `
        INSERT INTO auctions (author_id, name, description, category, starting_price, minimal_bid, deadline)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_on, closed`
	return r.pool.QueryRow(ctx, query,
		auction.AuthorID,
		auction.Name,
		auction.Description,
		auction.Category,
		auction.StartingPrice,
		auction.MinimalBid,
		auction.Deadline,
	).Scan(&auction.ID, &auction.CreatedOn, &auction.Closed)
}

func (r *auctionRepository) GetByID(ctx context.Context, id string) (*domain.Auction, error) {
	const query = `
        SELECT id, author_id, name, description, category, starting_price, minimal_bid, created_on, deadline, closed
        FROM auctions WHERE id=$1`
	var auction domain.Auction
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&auction.ID,
		&auction.AuthorID,
		&auction.Name,
		&auction.Description,
		&auction.Category,
		&auction.StartingPrice,
		&auction.MinimalBid,
		&auction.CreatedOn,
		&auction.Deadline,
		&auction.Closed,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("auction", map[string]any{"auction_id": id})
		}
		return nil, err
	}
	return &auction, nil
}

// ListWithFilter runs the ranking/query projection. The effective highest bid
// is COALESCE(MAX(bid amount), starting_price), identical to the ledger's
// highest-bid computation, so listings never diverge from admission reads.
func (r *auctionRepository) ListWithFilter(ctx context.Context, filter AuctionFilter) ([]AuctionListing, error) {
	const base = `
        SELECT a.id, a.author_id, a.name, a.description, a.category, a.starting_price, a.minimal_bid,
               a.created_on, a.deadline, a.closed,
               COALESCE(MAX(b.amount), a.starting_price) AS highest_bid,
               COUNT(b.id) AS bid_count
        FROM auctions a
        LEFT JOIN bids b ON b.auction_id = a.id`

	clauses := []string{"1=1"}
	having := []string{}
	args := []any{}

	switch filter.State {
	case StateClosed:
		clauses = append(clauses, "a.closed")
	case StateAll:
	default:
		clauses = append(clauses, "NOT a.closed")
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("a.category=$%d", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		clauses = append(clauses, fmt.Sprintf("a.author_id=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.SearchTerm)+"%")
		clauses = append(clauses, fmt.Sprintf("a.name ILIKE $%d", len(args)))
	}
	if filter.MinBid != nil {
		args = append(args, *filter.MinBid)
		having = append(having, fmt.Sprintf("COALESCE(MAX(b.amount), a.starting_price) >= $%d", len(args)))
	}
	if filter.MaxBid != nil {
		args = append(args, *filter.MaxBid)
		having = append(having, fmt.Sprintf("COALESCE(MAX(b.amount), a.starting_price) <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf("%s WHERE %s GROUP BY a.id", base, strings.Join(clauses, " AND "))
	if len(having) > 0 {
		query += " HAVING " + strings.Join(having, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY %s LIMIT %d OFFSET %d", orderClause(filter.SortBy, filter.SortDesc), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AuctionListing
	for rows.Next() {
		var listing AuctionListing
		if err := rows.Scan(
			&listing.Auction.ID,
			&listing.Auction.AuthorID,
			&listing.Auction.Name,
			&listing.Auction.Description,
			&listing.Auction.Category,
			&listing.Auction.StartingPrice,
			&listing.Auction.MinimalBid,
			&listing.Auction.CreatedOn,
			&listing.Auction.Deadline,
			&listing.Auction.Closed,
			&listing.HighestBid,
			&listing.BidCount,
		); err != nil {
			return nil, err
		}
		result = append(result, listing)
	}
	return result, rows.Err()
}

func orderClause(field SortField, desc bool) string {
	column := "a.created_on"
	switch field {
	case SortByHighestBid:
		column = "highest_bid"
	case SortByDeadline:
		column = "a.deadline"
	case SortByCreatedOn:
		column = "a.created_on"
	}
	direction := "ASC"
	if desc || field == "" {
		direction = "DESC"
	}
	return column + " " + direction
}

// CloseExpired flips every open auction whose deadline has passed and returns
// the affected ids. Idempotent: already-closed auctions are never re-closed.
func (r *auctionRepository) CloseExpired(ctx context.Context, now time.Time) ([]string, error) {
	const query = `
        UPDATE auctions SET closed = TRUE
        WHERE NOT closed AND deadline <= $1
        RETURNING id`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
