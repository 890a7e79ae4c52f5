// Package auth implements the /api/auth handlers: registration, login,
// token refresh, logout, profile and admin user management.
package auth

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakaleshhubli/books-api/internal/api/response"
	"github.com/sakaleshhubli/books-api/internal/model"
	"github.com/sakaleshhubli/books-api/internal/pkg/jwt"
	"github.com/sakaleshhubli/books-api/internal/service"
	"github.com/sakaleshhubli/books-api/internal/validator"
)

// Handler serves authentication and user management endpoints.
type Handler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewHandler creates an auth Handler.
func NewHandler(auth *service.AuthService, logger *zap.Logger) *Handler {
	return &Handler{auth: auth, logger: logger.Named("auth")}
}

// Register creates a new user account with the default role.
func (h *Handler) Register(c *gin.Context) {
	var in model.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON payload", err.Error())
		return
	}

	v := validator.New()
	if model.ValidateRegister(v, in); !v.Valid() {
		response.ValidationFailed(c, v.Errors)
		return
	}

	user, err := h.auth.Register(in, model.RoleUser)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			response.Error(c, http.StatusConflict, "Username already exists", "")
		case errors.Is(err, service.ErrEmailTaken):
			response.Error(c, http.StatusConflict, "Email already exists", "")
		default:
			h.logger.Error("registration failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		}
		return
	}

	response.Message(c, http.StatusCreated, user.Info(), "User registered successfully")
}

// Login authenticates a user and returns an access/refresh token pair.
func (h *Handler) Login(c *gin.Context) {
	var in model.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON payload", err.Error())
		return
	}
	if in.Username == "" || in.Password == "" {
		response.Error(c, http.StatusBadRequest, "Missing required fields",
			"Username and password are required")
		return
	}

	user, tokens, err := h.auth.Login(in.Username, in.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Invalid credentials",
				"Username or password is incorrect")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	response.Message(c, http.StatusOK, gin.H{
		"user":   user.Info(),
		"tokens": tokens,
	}, "Login successful")
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh mints a new access token from a valid refresh token.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.Error(c, http.StatusBadRequest, "Missing refresh token",
			"refresh_token is required")
		return
	}

	access, expiresIn, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) || errors.Is(err, jwt.ErrInvalidToken) {
			response.Error(c, http.StatusUnauthorized, "Invalid refresh token",
				"Refresh token is invalid or expired")
			return
		}
		h.logger.Error("token refresh failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	response.Message(c, http.StatusOK, gin.H{
		"access_token": access,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	}, "Token refreshed successfully")
}

// Logout revokes the presented access token, and the refresh token too when
// the client sends it along. Calling logout twice is harmless.
func (h *Handler) Logout(c *gin.Context) {
	if v, ok := c.Get("claims"); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			h.auth.Logout(claims)
		}
	}

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		h.auth.RevokeToken(req.RefreshToken)
	}

	response.Message(c, http.StatusOK, nil, "Logout successful")
}

// GetProfile returns the authenticated user's account.
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.auth.GetUser(c.GetInt("user_id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "User not found", "")
		return
	}
	response.OK(c, http.StatusOK, user.Info())
}

// UpdateProfile updates the authenticated user's own account. Role and
// is_active are stripped; users cannot escalate themselves.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var in model.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON payload", err.Error())
		return
	}
	in.Role = nil
	in.IsActive = nil

	v := validator.New()
	if model.ValidateUserUpdate(v, in); !v.Valid() {
		response.ValidationFailed(c, v.Errors)
		return
	}

	user, err := h.auth.UpdateUser(c.GetInt("user_id"), in, false)
	if err != nil {
		h.writeUserError(c, err)
		return
	}

	response.Message(c, http.StatusOK, user.Info(), "Profile updated successfully")
}

// ListUsers returns every user account. Admin only.
func (h *Handler) ListUsers(c *gin.Context) {
	response.OK(c, http.StatusOK, h.auth.ListUsers())
}

// GetUser returns one user account. Admin only.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	user, err := h.auth.GetUser(id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "User not found", "")
		return
	}
	response.OK(c, http.StatusOK, user.Info())
}

// UpdateUser updates any user account, including role and is_active. Admin
// only.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var in model.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON payload", err.Error())
		return
	}

	v := validator.New()
	if model.ValidateUserUpdate(v, in); !v.Valid() {
		response.ValidationFailed(c, v.Errors)
		return
	}

	user, err := h.auth.UpdateUser(id, in, true)
	if err != nil {
		h.writeUserError(c, err)
		return
	}

	response.Message(c, http.StatusOK, user.Info(), "User updated successfully")
}

// DeleteUser removes a user account. Admin only; deleting the last active
// admin is refused.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	user, err := h.auth.DeleteUser(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "User not found", "")
		case errors.Is(err, service.ErrLastAdmin):
			response.Error(c, http.StatusConflict, "Cannot delete the last admin user", "")
		default:
			h.logger.Error("failed to delete user", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "Internal server error", "")
		}
		return
	}

	response.Message(c, http.StatusOK, user.Info(), "User deleted successfully")
}

func (h *Handler) writeUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found", "")
	case errors.Is(err, service.ErrUsernameTaken):
		response.Error(c, http.StatusConflict, "Username already exists", "")
	case errors.Is(err, service.ErrEmailTaken):
		response.Error(c, http.StatusConflict, "Email already exists", "")
	default:
		h.logger.Error("user update failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Internal server error", "")
	}
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "Invalid id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
