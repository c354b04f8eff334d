package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/auction-service/internal/api/http"
	"github.com/spec-kit/auction-service/internal/api/http/handlers"
	"github.com/spec-kit/auction-service/internal/auth"
	"github.com/spec-kit/auction-service/internal/cache"
	"github.com/spec-kit/auction-service/internal/config"
	"github.com/spec-kit/auction-service/internal/events"
	"github.com/spec-kit/auction-service/internal/observability"
	"github.com/spec-kit/auction-service/internal/persistence"
	"github.com/spec-kit/auction-service/internal/repository"
	"github.com/spec-kit/auction-service/internal/service"
	"github.com/spec-kit/auction-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	cacheClient := cache.New(redis.Client, time.Duration(cfg.Bidding.CacheTTLSeconds)*time.Second)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	followRepo := repository.NewFollowRepository(pool)
	auctionRepo := repository.NewAuctionRepository(pool)
	bidRepo := repository.NewBidRepository(pool)
	imageRepo := repository.NewImageRepository(pool)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	userService := service.NewUserService(userRepo, followRepo, auctionRepo)
	auctionService := service.NewAuctionService(service.AuctionDependencies{
		AuctionRepo: auctionRepo,
		Ledger:      bidRepo,
		ImageRepo:   imageRepo,
		Dispatcher:  dispatcher,
		Cache:       cacheClient,
	})
	bidService := service.NewBidService(cfg.Bidding, service.BidDependencies{
		Ledger:      bidRepo,
		AuctionRepo: auctionRepo,
		Dispatcher:  dispatcher,
		Cache:       cacheClient,
		Metrics:     metrics,
	})
	lifecycleService := service.NewLifecycleService(auctionRepo, dispatcher, cacheClient, metrics, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	if cfg.Sweep.Enabled {
		sweeper := worker.NewSweepWorker(lifecycleService, cfg.Sweep, logger)
		go sweeper.Run(ctx)
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService),
		Auctions:       handlers.NewAuctionsHandler(auctionService, bidService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
