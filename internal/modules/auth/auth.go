package auth

import (
	"context"

	"github.com/streetmandi/mandi-backend/internal/modules/user"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Login verifies credentials and returns a signed token plus the account.
	Login(ctx context.Context, email, password string) (string, *user.User, error)

	// VerifyToken parses and validates a token, returning the principal it names.
	VerifyToken(token string) (*Principal, error)

	// Me resolves the authenticated principal back to its full account record.
	Me(ctx context.Context, userID string) (*user.User, error)
}

// Principal is the authenticated caller: an opaque user id plus its role tag.
type Principal struct {
	UserID string
	Role   user.Role
}

type contextKey struct{}

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal stored by the Authenticator middleware.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(*Principal)
	return p, ok
}
