package model

import "time"

// Roles a user can hold. Write endpoints for books and authors require
// moderator or admin; user management requires admin.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// ValidRoles lists every role accepted on user creation or update.
var ValidRoles = []string{RoleAdmin, RoleModerator, RoleUser}

// User represents a user account as persisted in the users collection.
// PasswordHash is stored in the JSON file but must never reach an API
// response; use Info for anything client-facing.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecordID implements storage.Record.
func (u User) RecordID() int { return u.ID }

// UserInfo is the client-facing projection of a User.
type UserInfo struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Info returns the user without sensitive fields.
func (u User) Info() UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RegisterInput holds the fields a client supplies on registration.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput holds the credentials presented on login.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserInput holds the fields that may change on a user. Role and
// IsActive are honored only for admin callers; profile updates strip them.
type UpdateUserInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// TokenPair is returned on successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
