package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auction-service/internal/api/http/handlers"
	"github.com/spec-kit/auction-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Auctions       *handlers.AuctionsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Listing and reading auctions is public;
// anything that writes requires an authenticated principal.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	app.Get("/auctions", cfg.Auctions.ListAuctions)
	app.Get("/auctions/:id", cfg.Auctions.GetAuction)
	app.Get("/auctions/:id/bids", cfg.Auctions.ListBids)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/auctions", cfg.Auctions.CreateAuction)
	protected.Post("/auctions/:id/bids", cfg.Auctions.PlaceBid)
	protected.Post("/auctions/:id/images", cfg.Auctions.AddImages)

	protected.Get("/users/me", cfg.Users.Me)
	protected.Get("/users/:id", cfg.Users.GetUser)
	protected.Post("/users/:id/follow", cfg.Users.Follow)
	protected.Delete("/users/:id/follow", cfg.Users.Unfollow)
	protected.Get("/users/:id/followers", cfg.Users.ListFollowers)
	protected.Get("/users/:id/following", cfg.Users.ListFollowing)
}
