package auth

import (
	"context"

	"erp-project/backend/models"
)

// Session is what a verified bearer token tells us about the caller.
type Session struct {
	UserID string
	Email  string
}

// Identity is attached to the request context once a caller is resolved.
type Identity struct {
	Session
	Superuser   bool
	User        *models.User
	Role        models.Role
	Permissions models.Permissions
}

func (i *Identity) Can(c models.Capability) bool {
	return i.Superuser || i.Permissions.Has(c)
}

type contextKey struct{}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(*Identity)
	return identity, ok && identity != nil
}
