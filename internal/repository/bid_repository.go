package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/auction-service/internal/domain"
	apperrors "github.com/spec-kit/auction-service/pkg/util"
)

// BidSubmission carries one prospective bid into the ledger.
type BidSubmission struct {
	AuctionID string
	BidderID  string
	Amount    domain.Money
	Now       time.Time
}

// BidRepository is the auction ledger: the authoritative append-only record
// of bids. Append validates and commits atomically so that no two bids are
// ever admitted against the same superseded highest-bid value.
type BidRepository interface {
	Append(ctx context.Context, sub BidSubmission) (*domain.Bid, error)
	HighestBid(ctx context.Context, auctionID string) (domain.Money, error)
	ListByAuction(ctx context.Context, auctionID string) ([]domain.Bid, error)
}

type bidRepository struct {
	pool *pgxpool.Pool
}

// NewBidRepository returns a Postgres-backed ledger.
func NewBidRepository(pool *pgxpool.Pool) BidRepository {
	return &bidRepository{pool: pool}
}

// Append runs the admission check and the insert in one transaction. The
// auction row is locked FOR UPDATE, serializing bids per auction: the highest
// bid read for validation cannot be superseded before the insert commits.
// Expired-but-unswept auctions are flipped closed here, with the same
// deadline comparison the sweep uses.
func (r *bidRepository) Append(ctx context.Context, sub BidSubmission) (*domain.Bid, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const lockQuery = `
        SELECT id, author_id, name, description, category, starting_price, minimal_bid, created_on, deadline, closed
        FROM auctions WHERE id=$1
        FOR UPDATE`
	var auction domain.Auction
	if err := tx.QueryRow(ctx, lockQuery, sub.AuctionID).Scan(
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
			return nil, apperrors.NewNotFound("auction", map[string]any{"auction_id": sub.AuctionID})
		}
		return nil, err
	}

	if !auction.Closed && !sub.Now.Before(auction.Deadline) {
		if _, err := tx.Exec(ctx, `UPDATE auctions SET closed = TRUE WHERE id=$1 AND NOT closed`, auction.ID); err != nil {
			return nil, err
		}
		auction.Closed = true
	}

	highest, err := highestBidLocked(ctx, tx, &auction)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateBid(&auction, highest, sub.BidderID, sub.Amount, sub.Now); err != nil {
		return nil, err
	}

	bid := &domain.Bid{
		AuctionID: auction.ID,
		BidderID:  sub.BidderID,
		Amount:    sub.Amount,
	}
	const insertQuery = `
        INSERT INTO bids (auction_id, bidder_id, amount)
        VALUES ($1,$2,$3)
        RETURNING id, placed_on`
	if err := tx.QueryRow(ctx, insertQuery, bid.AuctionID, bid.BidderID, bid.Amount).Scan(&bid.ID, &bid.PlacedOn); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return bid, nil
}

func highestBidLocked(ctx context.Context, tx pgx.Tx, auction *domain.Auction) (domain.Money, error) {
	const query = `SELECT COUNT(*), COALESCE(MAX(amount), 0) FROM bids WHERE auction_id=$1`
	var count int64
	var max domain.Money
	if err := tx.QueryRow(ctx, query, auction.ID).Scan(&count, &max); err != nil {
		return domain.Money{}, err
	}
	if count == 0 {
		return auction.StartingPrice, nil
	}
	return max, nil
}

// HighestBid returns the current winning price: max committed bid amount, or
// the starting price when the auction has no bids.
func (r *bidRepository) HighestBid(ctx context.Context, auctionID string) (domain.Money, error) {
	const query = `
        SELECT COUNT(b.id), COALESCE(MAX(b.amount), 0), a.starting_price
        FROM auctions a
        LEFT JOIN bids b ON b.auction_id = a.id
        WHERE a.id=$1
        GROUP BY a.starting_price`
	var count int64
	var max, starting domain.Money
	if err := r.pool.QueryRow(ctx, query, auctionID).Scan(&count, &max, &starting); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Money{}, apperrors.NewNotFound("auction", map[string]any{"auction_id": auctionID})
		}
		return domain.Money{}, err
	}
	if count == 0 {
		return starting, nil
	}
	return max, nil
}

// ListByAuction returns the auction's full bid history, highest amount first,
// ties broken by earliest placement.
func (r *bidRepository) ListByAuction(ctx context.Context, auctionID string) ([]domain.Bid, error) {
	const query = `
        SELECT id, auction_id, bidder_id, amount, placed_on
        FROM bids WHERE auction_id=$1
        ORDER BY amount DESC, placed_on ASC`
	rows, err := r.pool.Query(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Bid
	for rows.Next() {
		var bid domain.Bid
		if err := rows.Scan(&bid.ID, &bid.AuctionID, &bid.BidderID, &bid.Amount, &bid.PlacedOn); err != nil {
			return nil, err
		}
		result = append(result, bid)
	}
	return result, rows.Err()
}

// IsTransientTxError reports whether err is a serialization failure or
// deadlock that a bounded retry of the same submission may resolve.
func IsTransientTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
