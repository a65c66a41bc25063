package auth

import (
	"context"

	"github.com/lalarentals/users-micro/internal/model"
)

// Identity is who is calling, as proven by a verified token.  It lives for
// one request and is never persisted.
type Identity struct {
	Email  string
	UserID uint64
	Role   model.Role
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the Identity stored in ctx, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == 0 {
		return Identity{}, false
	}
	return id, true
}
