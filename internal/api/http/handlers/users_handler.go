package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auction-service/internal/api/dto"
	"github.com/spec-kit/auction-service/internal/auth"
	"github.com/spec-kit/auction-service/internal/domain"
	"github.com/spec-kit/auction-service/internal/service"
	apperrors "github.com/spec-kit/auction-service/pkg/util"
)

// UsersHandler manages registration, login, profiles and the follow graph.
type UsersHandler struct {
	authSvc *service.AuthService
	users   *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authSvc *service.AuthService, users *service.UserService) *UsersHandler {
	return &UsersHandler{authSvc: authSvc, users: users}
}

// Register POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	_, token, expiresAt, err := h.authSvc.RegisterUser(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AuthResponse{Token: token, ExpiresAt: expiresAt}})
}

// Login POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	_, token, expiresAt, err := h.authSvc.LoginUser(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: token, ExpiresAt: expiresAt}})
}

// Me GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	return h.profile(c, principal.User.ID)
}

// GetUser GET /users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	return h.profile(c, c.Params("id"))
}

func (h *UsersHandler) profile(c *fiber.Ctx, userID string) error {
	profile, err := h.users.GetProfile(c.Context(), userID)
	if err != nil {
		return err
	}
	auctions := make([]dto.AuctionSummary, 0, len(profile.Auctions))
	for i := range profile.Auctions {
		auctions = append(auctions, auctionSummary(&profile.Auctions[i].Auction, profile.Auctions[i].HighestBid, profile.Auctions[i].BidCount))
	}
	return c.JSON(fiber.Map{"data": dto.UserProfileResponse{
		ID:       profile.User.ID,
		Name:     profile.User.Name,
		Auctions: auctions,
	}})
}

// Follow POST /users/:id/follow.
func (h *UsersHandler) Follow(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.users.Follow(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.Status(http.StatusNoContent).Send(nil)
}

// Unfollow DELETE /users/:id/follow.
func (h *UsersHandler) Unfollow(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.users.Unfollow(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.Status(http.StatusNoContent).Send(nil)
}

// ListFollowers GET /users/:id/followers.
func (h *UsersHandler) ListFollowers(c *fiber.Ctx) error {
	return h.listEdge(c, h.users.ListFollowers)
}

// ListFollowing GET /users/:id/following.
func (h *UsersHandler) ListFollowing(c *fiber.Ctx) error {
	return h.listEdge(c, h.users.ListFollowing)
}

func (h *UsersHandler) listEdge(c *fiber.Ctx, list func(ctx context.Context, userID string, limit, offset int) ([]domain.User, error)) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	users, err := list(c.Context(), c.Params("id"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.UserSummary, 0, len(users))
	for _, u := range users {
		items = append(items, dto.UserSummary{ID: u.ID, Name: u.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}
