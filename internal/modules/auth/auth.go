package auth

import (
	"context"
	"errors"

	"github.com/wesribeiro/painel-ti/internal/modules/user"
)

var (
	// ErrInvalidCredentials is returned for an unknown username or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrFirstLogin is returned when the account has no password yet and must set one.
	ErrFirstLogin = errors.New("first login, password must be set")
	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation")
)

// Session is the result of a successful login.
type Session struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error

	// Verify parses a bearer token and returns the identity it carries.
	Verify(token string) (*Identity, error)
}

// Identity is the authenticated caller attached to the request context.
// Core operations trust it verbatim.
type Identity struct {
	UserID  int64  `json:"id"`
	Name    string `json:"name"`
	RoleID  int64  `json:"roleId"`
	StoreID *int64 `json:"storeId,omitempty"`
}

type ctxKey struct{}

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the authenticated identity, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok
}
