// Package service holds the application services: authentication, token
// revocation, rate limiting and data management. Services are constructed at
// startup with their dependencies injected and are safe for concurrent use.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakaleshhubli/books-api/internal/model"
	"github.com/sakaleshhubli/books-api/internal/pkg/jwt"
	"github.com/sakaleshhubli/books-api/internal/storage"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrLastAdmin          = errors.New("cannot delete the last active admin")
)

// AuthService implements registration, login, token verification, refresh,
// logout and user management over the users collection.
type AuthService struct {
	users    *storage.Collection[model.User]
	tokens   *jwt.Manager
	denylist *TokenDenylist
	logger   *zap.Logger
}

// NewAuthService creates an AuthService with a fresh in-memory denylist.
func NewAuthService(users *storage.Collection[model.User], tokens *jwt.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		denylist: NewTokenDenylist(),
		logger:   logger.Named("auth"),
	}
}

// Register creates a new user with the given role. Field-level validation is
// the handler's job; Register enforces uniqueness and hashes the password.
func (s *AuthService) Register(in model.RegisterInput, role string) (model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, exists := s.users.Find(func(u model.User) bool { return u.Username == username }); exists {
		s.logger.Warn("registration attempt with existing username", zap.String("username", username))
		return model.User{}, ErrUsernameTaken
	}
	if _, exists := s.users.Find(func(u model.User) bool { return u.Email == email }); exists {
		s.logger.Warn("registration attempt with existing email", zap.String("email", email))
		return model.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Insert(func(id int) model.User {
		now := time.Now()
		return model.User{
			ID:           id,
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			Role:         role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	})
	if err != nil {
		return model.User{}, err
	}

	s.logger.Info("user registered", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login authenticates a user and mints an access/refresh token pair. The
// password check is bcrypt's constant-time comparison; inactive or unknown
// users fail identically so the response leaks nothing.
func (s *AuthService) Login(username, password string) (model.User, *model.TokenPair, error) {
	user, found := s.users.Find(func(u model.User) bool { return u.Username == username })
	if !found || !user.IsActive {
		s.logger.Warn("login failed", zap.String("username", username))
		return model.User{}, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login failed: invalid password", zap.String("username", username))
		return model.User{}, nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Username, user.Role)
	if err != nil {
		return model.User{}, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.Info("user logged in", zap.Int("user_id", user.ID))
	return user, &model.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// VerifyAccess validates an access token: signature, expiry, token type and
// the revocation denylist. The embedded role claim is authoritative; the
// user record is not re-fetched.
func (s *AuthService) VerifyAccess(tokenString string) (*jwt.Claims, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != jwt.TypeAccess {
		return nil, jwt.ErrInvalidToken
	}
	if s.denylist.IsRevoked(claims.ID) {
		s.logger.Debug("revoked token presented", zap.Int("user_id", claims.UserID))
		return nil, jwt.ErrInvalidToken
	}
	return claims, nil
}

// Refresh validates a refresh token and mints a new access token carrying
// the user's current role.
func (s *AuthService) Refresh(refreshToken string) (string, int, error) {
	claims, err := s.tokens.Parse(refreshToken)
	if err != nil {
		return "", 0, err
	}
	if claims.TokenType != jwt.TypeRefresh || s.denylist.IsRevoked(claims.ID) {
		return "", 0, jwt.ErrInvalidToken
	}

	user, err := s.users.Get(claims.UserID)
	if err != nil || !user.IsActive {
		return "", 0, jwt.ErrInvalidToken
	}

	access, err := s.tokens.GenerateAccess(user.ID, user.Username, user.Role)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Info("token refreshed", zap.Int("user_id", user.ID))
	return access, int(s.tokens.AccessTTL().Seconds()), nil
}

// Logout adds the token's id to the revocation denylist until its natural
// expiry. Logging out twice with the same token is a no-op.
func (s *AuthService) Logout(claims *jwt.Claims) {
	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	} else {
		exp = time.Now().Add(s.tokens.AccessTTL())
	}
	s.denylist.Revoke(claims.ID, exp)
	s.logger.Info("token revoked", zap.Int("user_id", claims.UserID))
}

// RevokeToken revokes an arbitrary token string if it parses; used for the
// optional refresh token in a logout request. Invalid tokens are ignored so
// logout stays idempotent.
func (s *AuthService) RevokeToken(tokenString string) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return
	}
	s.Logout(claims)
}

// GetUser returns a user by id.
func (s *AuthService) GetUser(id int) (model.User, error) {
	user, err := s.users.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

// ListUsers returns every user without sensitive fields.
func (s *AuthService) ListUsers() []model.UserInfo {
	users := s.users.All()
	infos := make([]model.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, u.Info())
	}
	return infos
}

// UpdateUser applies the supplied fields to a user. Role and is_active
// changes are honored only when allowRoleChange is set (admin callers);
// profile updates pass false.
func (s *AuthService) UpdateUser(id int, in model.UpdateUserInput, allowRoleChange bool) (model.User, error) {
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if other, exists := s.users.Find(func(u model.User) bool { return u.Username == username }); exists && other.ID != id {
			return model.User{}, ErrUsernameTaken
		}
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if other, exists := s.users.Find(func(u model.User) bool { return u.Email == email }); exists && other.ID != id {
			return model.User{}, ErrEmailTaken
		}
	}

	var hash string
	if in.Password != nil {
		h, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = string(h)
	}

	user, err := s.users.Update(id, func(u model.User) model.User {
		if in.Username != nil {
			u.Username = strings.TrimSpace(*in.Username)
		}
		if in.Email != nil {
			u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
		}
		if in.Password != nil {
			u.PasswordHash = hash
		}
		if allowRoleChange {
			if in.Role != nil {
				u.Role = *in.Role
			}
			if in.IsActive != nil {
				u.IsActive = *in.IsActive
			}
		}
		u.UpdatedAt = time.Now()
		return u
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}

	s.logger.Info("user updated", zap.Int("user_id", user.ID))
	return user, nil
}

// DeleteUser removes a user. Deleting the last active admin is refused so
// the system cannot lock itself out.
func (s *AuthService) DeleteUser(id int) (model.User, error) {
	user, err := s.users.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}

	if user.Role == model.RoleAdmin {
		admins := 0
		for _, u := range s.users.All() {
			if u.Role == model.RoleAdmin && u.IsActive {
				admins++
			}
		}
		if admins <= 1 {
			return model.User{}, ErrLastAdmin
		}
	}

	deleted, err := s.users.Delete(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}

	s.logger.Info("user deleted", zap.Int("user_id", deleted.ID))
	return deleted, nil
}

// Bootstrap creates the configured admin account when the users collection
// starts empty, so a fresh deployment is immediately usable.
func (s *AuthService) Bootstrap(username, email, password string) error {
	if s.users.Len() > 0 {
		return nil
	}
	if username == "" || password == "" {
		s.logger.Warn("users collection is empty and no bootstrap admin is configured")
		return nil
	}

	_, err := s.Register(model.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	}, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	s.logger.Info("bootstrap admin created", zap.String("username", username))
	return nil
}
