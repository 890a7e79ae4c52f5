package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sakaleshhubli/books-api/internal/api/response"
	"github.com/sakaleshhubli/books-api/internal/pkg/jwt"
	"github.com/sakaleshhubli/books-api/internal/service"
)

// Context keys set by the auth middleware for downstream handlers.
const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
	ctxRole     = "role"
	ctxClaims   = "claims"
)

// RequireAuth rejects requests without a valid, unrevoked access token.
// Missing, garbled, expired and revoked tokens are all 401; 403 is reserved
// for valid tokens with insufficient role.
func RequireAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, auth)
		if !ok {
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// RequireRoles rejects unauthenticated requests with 401 and authenticated
// requests whose token role is not in the required set with 403. The role
// check reads the token claim only; it never consults the user store.
func RequireRoles(auth *service.AuthService, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, auth)
		if !ok {
			return
		}

		allowed := false
		for _, role := range roles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			response.Error(c, http.StatusForbidden, "Insufficient permissions",
				fmt.Sprintf("Required roles: %s. Your role: %s", strings.Join(roles, ", "), claims.Role))
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth resolves the caller's identity when a valid token is present
// but lets anonymous requests through untouched. Invalid tokens are treated
// as anonymous rather than rejected.
func OptionalAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			if token, err := jwt.ExtractTokenFromHeader(authHeader); err == nil {
				if claims, err := auth.VerifyAccess(token); err == nil {
					setIdentity(c, claims)
				}
			}
		}
		c.Next()
	}
}

// RateLimit applies the per-IP limiter. A nil limiter disables limiting.
func RateLimit(limiter service.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow(c.Request.Context(), c.ClientIP()) {
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded",
				"Too many requests, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, auth *service.AuthService) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Error(c, http.StatusUnauthorized, "Authentication required",
			"Missing or invalid Authorization header")
		c.Abort()
		return nil, false
	}

	token, err := jwt.ExtractTokenFromHeader(authHeader)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Authentication required",
			"Missing or invalid Authorization header")
		c.Abort()
		return nil, false
	}

	claims, err := auth.VerifyAccess(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			response.Error(c, http.StatusUnauthorized, "Invalid token", "Token has expired")
		} else {
			response.Error(c, http.StatusUnauthorized, "Invalid token", "Token is invalid or revoked")
		}
		c.Abort()
		return nil, false
	}

	return claims, true
}

func setIdentity(c *gin.Context, claims *jwt.Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUsername, claims.Username)
	c.Set(ctxRole, claims.Role)
	c.Set(ctxClaims, claims)
}
