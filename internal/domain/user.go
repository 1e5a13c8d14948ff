package domain

import (
	"context"
	"time"
)

// Role codes. Authorization beyond this flag is not enforced anywhere.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the signed-in account.
// swagger:model User
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName returns the name, or the local part of the email when no name is set.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	for i, c := range u.Email {
		if c == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}

// Session is the result of a successful login or registration.
// swagger:model Session
type Session struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// RegisterInput is the data accepted by AuthService.Register.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Avatar   string
}

// UserPatch holds the optional fields of a profile update. Nil means unchanged.
type UserPatch struct {
	Name   *string
	Email  *string
	Avatar *string
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
// Expired, malformed or foreign tokens yield ErrUnauthenticated.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// AuthService owns the signed-in user state.
type AuthService interface {
	// Login returns (session, true, nil) on success and (nil, false, nil) on bad credentials.
	Login(ctx context.Context, email, password string, rememberMe bool) (*Session, bool, error)
	// Register always creates a new user with role "user".
	Register(ctx context.Context, in *RegisterInput) (*Session, error)
	Logout(ctx context.Context, userID string) error
	// CurrentUser returns the signed-in user or ErrUnauthenticated.
	CurrentUser(ctx context.Context, userID string) (*User, error)
	UpdateUser(ctx context.Context, userID string, patch *UserPatch) (*User, error)
	IsAdmin(ctx context.Context, userID string) bool
	// ResetPassword always reports success, whether or not the email belongs to an account.
	ResetPassword(ctx context.Context, email string) (bool, error)
}

// ProfileDirectory resolves user profiles by id. Profiles outlive sessions.
type ProfileDirectory interface {
	ProfilesByID(ctx context.Context) (map[string]User, error)
}
