package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/broker"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/config"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/database"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/handler"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/middleware"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/repository"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/service"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/wal"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database.Connect(cfg)
	database.Migrate()

	walInstance, err := wal.NewWAL(cfg.WALPath)
	if err != nil {
		logger.Log.Fatal("Failed to initialize WAL", zap.Error(err))
	}
	defer walInstance.Close()

	redisClient, err := broker.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	eventBroker := broker.NewRedisEventBroker(redisClient)
	defer eventBroker.Close()
	inbox := broker.NewRedisInbox(redisClient, cfg.InboxLimit)

	relay := wal.NewRelay(walInstance, eventBroker, cfg.RelaySchedule)
	if err := relay.Start(ctx); err != nil {
		logger.Log.Fatal("Failed to start event relay", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	swapRepo := repository.NewSwapRepository(database.DB)
	broadcastRepo := repository.NewBroadcastRepository(database.DB)

	// Services
	userService := service.NewUserService(userRepo)
	swapService := service.NewSwapService(swapRepo, userRepo, walInstance)
	adminService := service.NewAdminService(userRepo, swapRepo, broadcastRepo, swapService, inbox, walInstance, cfg.BroadcastConcurrency)

	// Handlers
	streamHandler := handler.NewEventStreamHandler(eventBroker)
	if err := streamHandler.Run(ctx); err != nil {
		logger.Log.Fatal("Failed to subscribe to events", zap.Error(err))
	}

	router := handler.NewRouter(handler.RouterConfig{
		SwapHandler:       handler.NewSwapHandler(swapService),
		UserHandler:       handler.NewUserHandler(userService, inbox),
		AdminHandler:      handler.NewAdminHandler(adminService),
		StreamHandler:     streamHandler,
		IdentityHeader:    cfg.IdentityHeader,
		IdentityJWTSecret: cfg.IdentityJWTSecret,
		CORSOrigins:       cfg.CORSOrigins,
		IsProduction:      cfg.IsProduction(),
		SwapLimiter: middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
			Prefix:      "ratelimit:swaps",
		}),
	})

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server starting", zap.String("addr", cfg.ServerPort), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server shutdown failed", zap.Error(err))
	}
	// Final flush so pending events reach the broker before exit.
	relay.Stop(shutdownCtx)
}
