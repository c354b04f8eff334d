package service

import (
	"context"

	"github.com/spec-kit/auction-service/internal/domain"
	"github.com/spec-kit/auction-service/internal/repository"
	apperrors "github.com/spec-kit/auction-service/pkg/util"
)

// UserService covers user profiles and the follow graph.
type UserService struct {
	users    repository.UserRepository
	follows  repository.FollowRepository
	auctions repository.AuctionRepository
}

// UserProfile is a user together with the auctions they authored, each with
// its effective highest bid.
type UserProfile struct {
	User     domain.User
	Auctions []repository.AuctionListing
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, follows repository.FollowRepository, auctions repository.AuctionRepository) *UserService {
	return &UserService{users: users, follows: follows, auctions: auctions}
}

// GetProfile returns the user and their authored auctions.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	auctions, err := s.auctions.ListWithFilter(ctx, repository.AuctionFilter{
		AuthorID: &userID,
		State:    repository.StateAll,
		SortBy:   repository.SortByCreatedOn,
		SortDesc: true,
		Limit:    100,
	})
	if err != nil {
		return nil, err
	}
	return &UserProfile{User: *user, Auctions: auctions}, nil
}

// Follow creates a directed follow edge. Following yourself is rejected;
// following someone twice is a no-op.
func (s *UserService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return apperrors.NewValidationError("users cannot follow themselves", nil)
	}
	if _, err := s.users.GetByID(ctx, followeeID); err != nil {
		return err
	}
	return s.follows.Create(ctx, followerID, followeeID)
}

// Unfollow removes a follow edge if present.
func (s *UserService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	_, err := s.follows.Delete(ctx, followerID, followeeID)
	return err
}

// ListFollowers returns users following the given user.
func (s *UserService) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]domain.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.ListFollowers(ctx, userID, limit, offset)
}

// ListFollowing returns users the given user follows.
func (s *UserService) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]domain.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.ListFollowing(ctx, userID, limit, offset)
}
