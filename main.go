package main

import (
	"context"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pop-backend/badge"
	"pop-backend/config"
	"pop-backend/contracts"
	"pop-backend/handlers"
	"pop-backend/registry"
)

func connectToDatabase(ctx context.Context, dbURL string, log *zap.SugaredLogger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	log.Info("Successfully connected to the database")
	return pool, nil
}

func connectToEthereum(rpcURL string, log *zap.SugaredLogger) (*ethclient.Client, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, err
	}

	log.Info("Successfully connected to Ethereum node")
	return client, nil
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	pool, err := connectToDatabase(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	store := registry.NewPGStore(pool)
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Unable to migrate record store: %v", err)
	}

	ethClient, err := connectToEthereum(cfg.RPCURL, log)
	if err != nil {
		log.Fatalf("Unable to connect to Ethereum node: %v", err)
	}
	defer ethClient.Close()

	token, err := contracts.NewBadgeToken(ethClient, cfg.BadgeContract, cfg.MinterKey)
	if err != nil {
		log.Fatalf("Unable to set up badge token contract: %v", err)
	}

	svc := badge.NewService(store, token, cfg.AdminAddresses(), log)
	qr := handlers.NewQRSigner(cfg.QRSecret)

	eventHandler := handlers.NewEventHandler(svc, qr, log)
	badgeHandler := handlers.NewBadgeHandler(svc, qr, log)
	userHandler := handlers.NewUserHandler(svc, token, log)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api/v1")
	{
		// Event routes
		api.POST("/events", eventHandler.CreateEvent)
		api.GET("/events", eventHandler.GetEvents)
		api.GET("/events/:address", eventHandler.GetEvent)
		api.POST("/events/:address/close", eventHandler.CloseEvent)
		api.POST("/events/:address/qr", eventHandler.GenerateQR)

		// Badge routes
		api.POST("/badges/mint", badgeHandler.MintBadge)

		// Profile routes
		api.GET("/profiles/:walletAddress", userHandler.GetProfile)
		api.GET("/leaderboard", userHandler.GetLeaderboard)
		api.POST("/reputation", userHandler.UpdateReputation)

		// Health check route
		api.GET("/test-db", func(c *gin.Context) {
			if err := pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection failed: " + err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "Database connection OK"})
		})
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	log.Infof("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
