// Package api wires the HTTP route table: handlers, authorization
// middleware and CORS.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authapi "github.com/sakaleshhubli/books-api/internal/api/auth"
	"github.com/sakaleshhubli/books-api/internal/api/authors"
	"github.com/sakaleshhubli/books-api/internal/api/books"
	dataapi "github.com/sakaleshhubli/books-api/internal/api/data"
	"github.com/sakaleshhubli/books-api/internal/api/response"
	"github.com/sakaleshhubli/books-api/internal/model"
	"github.com/sakaleshhubli/books-api/internal/service"
	"github.com/sakaleshhubli/books-api/internal/storage"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// Deps carries everything the route table needs. Limiter may be nil when
// rate limiting is disabled.
type Deps struct {
	Auth    *service.AuthService
	Books   *storage.Collection[model.Book]
	Authors *storage.Collection[model.Author]
	Data    *service.DataManager
	Limiter service.RateLimiter
	Logger  *zap.Logger
}

// SetupRouter configures all routes. Read endpoints are public with optional
// auth; writes on books and authors require moderator or admin; user and
// data management require admin.
func SetupRouter(r *gin.Engine, deps Deps) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		response.OK(c, http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "Book API",
			"version":   Version,
			"timestamp": time.Now(),
		})
	})

	authHandler := authapi.NewHandler(deps.Auth, deps.Logger)
	booksHandler := books.NewHandler(deps.Books, deps.Logger)
	authorsHandler := authors.NewHandler(deps.Authors, deps.Logger)
	dataHandler := dataapi.NewHandler(deps.Data, deps.Logger)

	canWrite := RequireRoles(deps.Auth, model.RoleModerator, model.RoleAdmin)
	adminOnly := RequireRoles(deps.Auth, model.RoleAdmin)

	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/register", RateLimit(deps.Limiter), authHandler.Register)
		authRoutes.POST("/login", RateLimit(deps.Limiter), authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
		authRoutes.POST("/logout", RequireAuth(deps.Auth), authHandler.Logout)
		authRoutes.GET("/profile", RequireAuth(deps.Auth), authHandler.GetProfile)
		authRoutes.PUT("/profile", RequireAuth(deps.Auth), authHandler.UpdateProfile)

		users := authRoutes.Group("/users")
		users.Use(adminOnly)
		{
			users.GET("", authHandler.ListUsers)
			users.GET("/:id", authHandler.GetUser)
			users.PUT("/:id", authHandler.UpdateUser)
			users.DELETE("/:id", authHandler.DeleteUser)
		}
	}

	booksRoutes := r.Group("/api/books")
	{
		booksRoutes.GET("", OptionalAuth(deps.Auth), booksHandler.List)
		booksRoutes.GET("/search", OptionalAuth(deps.Auth), booksHandler.Search)
		booksRoutes.GET("/by-author/:name", OptionalAuth(deps.Auth), booksHandler.ByAuthor)
		booksRoutes.GET("/by-genre/:genre", OptionalAuth(deps.Auth), booksHandler.ByGenre)
		booksRoutes.GET("/:id", OptionalAuth(deps.Auth), booksHandler.Get)
		booksRoutes.POST("", canWrite, booksHandler.Create)
		booksRoutes.PUT("/:id", canWrite, booksHandler.Update)
		booksRoutes.DELETE("/:id", canWrite, booksHandler.Delete)
	}

	authorsRoutes := r.Group("/api/authors")
	{
		authorsRoutes.GET("", OptionalAuth(deps.Auth), authorsHandler.List)
		authorsRoutes.GET("/search", OptionalAuth(deps.Auth), authorsHandler.Search)
		authorsRoutes.GET("/:id", OptionalAuth(deps.Auth), authorsHandler.Get)
		authorsRoutes.POST("", canWrite, authorsHandler.Create)
		authorsRoutes.PUT("/:id", canWrite, authorsHandler.Update)
		authorsRoutes.DELETE("/:id", canWrite, authorsHandler.Delete)
	}

	dataRoutes := r.Group("/api/data")
	dataRoutes.Use(adminOnly)
	{
		dataRoutes.GET("/stats", dataHandler.Stats)
		dataRoutes.POST("/backup", dataHandler.Backup)
		dataRoutes.POST("/reset", dataHandler.Reset)
		dataRoutes.GET("/export", dataHandler.Export)
		dataRoutes.POST("/import", dataHandler.Import)
	}
}
