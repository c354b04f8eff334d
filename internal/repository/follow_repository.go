package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/auction-service/internal/domain"
)

// FollowRepository persists the directed follow graph between users.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID string) error
	Delete(ctx context.Context, followerID, followeeID string) (bool, error)
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowers(ctx context.Context, userID string, limit, offset int) ([]domain.User, error)
	ListFollowing(ctx context.Context, userID string, limit, offset int) ([]domain.User, error)
}

type followRepository struct {
	pool *pgxpool.Pool
}

// NewFollowRepository returns a Postgres-backed implementation.
func NewFollowRepository(pool *pgxpool.Pool) FollowRepository {
	return &followRepository{pool: pool}
}

func (r *followRepository) Create(ctx context.Context, followerID, followeeID string) error {
	const query = `
        INSERT INTO user_follows (follower_id, followee_id)
        VALUES ($1, $2)
        ON CONFLICT (follower_id, followee_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, followerID, followeeID)
	return err
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID string) (bool, error) {
	const query = `DELETE FROM user_follows WHERE follower_id=$1 AND followee_id=$2`
	cmd, err := r.pool.Exec(ctx, query, followerID, followeeID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM user_follows WHERE follower_id=$1 AND followee_id=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, followerID, followeeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]domain.User, error) {
	const query = `
        SELECT u.id, u.name, u.email, u.password_hash, u.status, u.created_at, u.updated_at
        FROM user_follows f
        JOIN users u ON u.id = f.follower_id
        WHERE f.followee_id = $1
        ORDER BY f.created_at DESC
        LIMIT $2 OFFSET $3`
	return r.listUsers(ctx, query, userID, limit, offset)
}

func (r *followRepository) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]domain.User, error) {
	const query = `
        SELECT u.id, u.name, u.email, u.password_hash, u.status, u.created_at, u.updated_at
        FROM user_follows f
        JOIN users u ON u.id = f.followee_id
        WHERE f.follower_id = $1
        ORDER BY f.created_at DESC
        LIMIT $2 OFFSET $3`
	return r.listUsers(ctx, query, userID, limit, offset)
}

func (r *followRepository) listUsers(ctx context.Context, query, userID string, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Status,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
