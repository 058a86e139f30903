// Package auth resolves the caller behind a bearer token and decides whether
// it holds a capability.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"erp-project/backend/logging"
	"erp-project/backend/models"
	"erp-project/backend/store"
	"erp-project/backend/utils"
)

type Resolver struct {
	verifier       SessionVerifier
	users          store.Collection[models.User]
	superuserEmail string
}

func NewResolver(verifier SessionVerifier, users store.Collection[models.User], superuserEmail string) *Resolver {
	return &Resolver{
		verifier:       verifier,
		users:          users,
		superuserEmail: strings.TrimSpace(superuserEmail),
	}
}

// Session verifies the Authorization header value without consulting the
// local user records.
func (r *Resolver) Session(ctx context.Context, authHeader string) (Session, error) {
	token := utils.BearerToken(authHeader)
	if token == "" {
		return Session{}, unauthenticated("Authorization token missing", nil)
	}
	session, err := r.verifier.VerifySession(ctx, token)
	if err != nil {
		return Session{}, unauthenticated("Invalid or expired token", err)
	}
	if session.Email == "" {
		return Session{}, unauthenticated("Unable to resolve user email", nil)
	}
	return session, nil
}

func (r *Resolver) IsSuperuser(email string) bool {
	return r.superuserEmail != "" && email == r.superuserEmail
}

// Authenticate resolves the caller. The superuser is granted everything
// whether or not a local record exists; anyone else needs a local record.
func (r *Resolver) Authenticate(ctx context.Context, authHeader string) (*Identity, error) {
	session, err := r.Session(ctx, authHeader)
	if err != nil {
		return nil, err
	}

	if r.IsSuperuser(session.Email) {
		user, err := r.users.FindOne(ctx, store.Filter{"email": session.Email})
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				logging.Logger.Warnf("Event ID: AUTH_SUPERUSER_RECORD_FAILED, Description: Superuser record lookup failed: %v", err)
			}
			user = nil
		}
		return &Identity{
			Session:     session,
			Superuser:   true,
			User:        user,
			Role:        models.RoleAdmin,
			Permissions: DefaultPermissions(models.RoleAdmin),
		}, nil
	}

	user, err := r.users.FindOne(ctx, store.Filter{"email": session.Email})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("error fetching user record: %w", err)
	}
	if user == nil {
		logging.Logger.Warnf("Event ID: AUTH_USER_NOT_IN_SYSTEM, Description: No local record for %s", session.Email)
		return nil, &AuthError{Kind: NotInSystem, Message: "User not found in system"}
	}
	return &Identity{
		Session:     session,
		User:        user,
		Role:        user.Role,
		Permissions: user.Permissions,
	}, nil
}

func (r *Resolver) Authorize(identity *Identity, capability models.Capability) error {
	if identity.Can(capability) {
		return nil
	}
	logging.Logger.Warnf("Event ID: AUTH_FORBIDDEN, Description: %s lacks %s", identity.Email, capability)
	return forbidden(fmt.Sprintf("Access denied: missing permission %s", capability))
}

// Resolve authenticates the caller and checks one capability.
func (r *Resolver) Resolve(ctx context.Context, authHeader string, capability models.Capability) (*Identity, error) {
	identity, err := r.Authenticate(ctx, authHeader)
	if err != nil {
		return nil, err
	}
	if err := r.Authorize(identity, capability); err != nil {
		return nil, err
	}
	return identity, nil
}
