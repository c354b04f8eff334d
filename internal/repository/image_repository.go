package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/auction-service/internal/domain"
)

// ImageRepository stores auction image metadata. Blob storage is external.
type ImageRepository interface {
	Create(ctx context.Context, image *domain.AuctionImage) error
	ListByAuction(ctx context.Context, auctionID string) ([]domain.AuctionImage, error)
}

type imageRepository struct {
	pool *pgxpool.Pool
}

// NewImageRepository returns a Postgres-backed implementation.
func NewImageRepository(pool *pgxpool.Pool) ImageRepository {
	return &imageRepository{pool: pool}
}

func (r *imageRepository) Create(ctx context.Context, image *domain.AuctionImage) error {
	const query = `
        INSERT INTO auction_images (auction_id, storage_key, file_name, mime_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		image.AuctionID,
		image.StorageKey,
		image.FileName,
		image.MimeType,
		image.SizeBytes,
	).Scan(&image.ID, &image.CreatedAt)
}

func (r *imageRepository) ListByAuction(ctx context.Context, auctionID string) ([]domain.AuctionImage, error) {
	const query = `
        SELECT id, auction_id, storage_key, file_name, mime_type, size_bytes, created_at
        FROM auction_images WHERE auction_id=$1
        ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuctionImage
	for rows.Next() {
		var image domain.AuctionImage
		if err := rows.Scan(
			&image.ID,
			&image.AuctionID,
			&image.StorageKey,
			&image.FileName,
			&image.MimeType,
			&image.SizeBytes,
			&image.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, image)
	}
	return result, rows.Err()
}
