package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakaleshhubli/books-api/internal/api"
	"github.com/sakaleshhubli/books-api/internal/model"
	"github.com/sakaleshhubli/books-api/internal/pkg/config"
	"github.com/sakaleshhubli/books-api/internal/pkg/jwt"
	"github.com/sakaleshhubli/books-api/internal/pkg/logger"
	"github.com/sakaleshhubli/books-api/internal/pkg/redis"
	"github.com/sakaleshhubli/books-api/internal/service"
	"github.com/sakaleshhubli/books-api/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("Starting Book API")

	// Open collections
	books, err := storage.Open[model.Book](cfg.Storage.BooksPath())
	if err != nil {
		zlog.Fatal("Failed to open books collection", zap.Error(err))
	}
	authors, err := storage.Open[model.Author](cfg.Storage.AuthorsPath())
	if err != nil {
		zlog.Fatal("Failed to open authors collection", zap.Error(err))
	}
	users, err := storage.Open[model.User](cfg.Storage.UsersPath())
	if err != nil {
		zlog.Fatal("Failed to open users collection", zap.Error(err))
	}

	// Seed books and authors from bundled defaults on first run
	manager := service.NewDataManager(books, authors, cfg.Storage, zlog)
	if err := manager.EnsureSeeded(); err != nil {
		zlog.Fatal("Failed to seed default data", zap.Error(err))
	}

	// Auth service and bootstrap admin
	tokens := jwt.NewManager(cfg.JWT.SecretKey, cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL())
	auth := service.NewAuthService(users, tokens, zlog)
	if err := auth.Bootstrap(cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		zlog.Fatal("Failed to bootstrap admin user", zap.Error(err))
	}

	// Rate limiter: Redis when available, in-memory otherwise
	var limiter service.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = service.NewMemoryRateLimiter(cfg.RateLimit.Window(), cfg.RateLimit.Requests)
		if cfg.Redis.Enabled {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			client, err := redis.Connect(ctx, cfg.Redis)
			cancel()
			if err != nil {
				zlog.Warn("Redis unavailable, falling back to in-memory rate limiting",
					zap.Error(err))
			} else {
				defer client.Close()
				limiter = service.NewRedisRateLimiter(client, cfg.RateLimit.Window(), cfg.RateLimit.Requests, zlog)
			}
		}
	}

	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Create router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	// Setup routes
	api.SetupRouter(r, api.Deps{
		Auth:    auth,
		Books:   books,
		Authors: authors,
		Data:    manager,
		Limiter: limiter,
		Logger:  zlog,
	})

	// Print startup info
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("📚 Starting Book API Service")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("🌐 URL: http://%s\n", cfg.Server.Addr())
	fmt.Printf("💾 Data directory: %s\n", cfg.Storage.DataDir)
	fmt.Printf("👤 Admin user: %s\n", cfg.Admin.Username)
	fmt.Println(strings.Repeat("=", 60))

	// Start server
	if err := r.Run(cfg.Server.Addr()); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}
