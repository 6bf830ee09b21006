package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"valoratbot-casino/internal/config"
	"valoratbot-casino/internal/handlers"
	"valoratbot-casino/internal/logger"
	"valoratbot-casino/internal/middleware"
	"valoratbot-casino/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New("casino-api", cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	walletService, err := services.NewWalletService(cfg)
	if err != nil {
		zlog.Fatal("postgres connection failed", zap.Error(err))
	}
	defer walletService.Close()

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		zlog.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisService.Close()

	codec, err := services.NewSessionCodec(cfg.SessionKey)
	if err != nil {
		zlog.Fatal("session codec init failed", zap.Error(err))
	}

	jwtService := services.NewJWTService(cfg)

	var events *services.EventPublisher
	if cfg.KafkaStatsEnable {
		events = services.NewEventPublisher(cfg)
		defer events.Close()
	}

	metrics := services.NewMetrics()
	services.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return redisService.Ping(ctx)
	})

	wsHandler := handlers.NewWebSocketHandler(zlog)

	stats := services.NewStatsRecorder(redisService, events, wsHandler, metrics, zlog)

	casinoHandler := handlers.NewCasinoHandler(cfg, walletService, redisService, codec, stats, metrics, zlog)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/me", casinoHandler.GetCurrentUser)
		protected.POST("/logout", casinoHandler.Logout)

		casino := protected.Group("/casino")
		{
			casino.POST("/blackjack", casinoHandler.Blackjack)
			casino.POST("/crash", casinoHandler.Crash)
			casino.POST("/mines", casinoHandler.Mines)
			casino.POST("/roulette", casinoHandler.Roulette)
			casino.POST("/slots", casinoHandler.Slots)

			casino.GET("/wallet", casinoHandler.GetBalance)
			casino.GET("/history", casinoHandler.GetHistory)
			casino.GET("/ledger", casinoHandler.GetLedger)
			casino.GET("/leaderboard", casinoHandler.GetLeaderboard)
			casino.GET("/stats", casinoHandler.GetGuildStats)

			casino.GET("/ws", wsHandler.HandleWebSocket)
		}
	}

	zlog.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
