package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"erp-project/backend/auth"
	"erp-project/backend/logging"
	"erp-project/backend/models"
	"erp-project/backend/store"
)

type UserService struct {
	users store.Collection[models.User]
}

func NewUserService(users store.Collection[models.User]) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.Find(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error fetching users: %w", err)
	}
	return users, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindOne(ctx, store.Filter{"email": strings.TrimSpace(email)})
}

// Sync registers the caller on first login with the default role, or
// refreshes the identity provider id on an existing record. The role of an
// existing record is never touched.
func (s *UserService) Sync(ctx context.Context, session auth.Session) (*models.User, error) {
	existing, err := s.FindByEmail(ctx, session.Email)
	switch {
	case err == nil:
		if session.UserID == "" || existing.ClerkUserID == session.UserID {
			return existing, nil
		}
		existing.ClerkUserID = session.UserID
		if err := s.users.Replace(ctx, existing); err != nil {
			return nil, fmt.Errorf("error updating user: %w", err)
		}
		logging.Logger.Infof("Event ID: USER_SYNCED, Description: Refreshed identity for %s", existing.Email)
		return existing, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	user := &models.User{
		ClerkUserID: session.UserID,
		Email:       session.Email,
		Role:        models.RoleUser,
		Permissions: auth.DefaultPermissions(models.RoleUser),
	}
	if err := s.insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			// registered concurrently by another request
			return s.FindByEmail(ctx, session.Email)
		}
		return nil, err
	}
	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: Registered %s with role %s", user.Email, user.Role)
	return user, nil
}

// SetRole assigns a role and resets the permissions to its defaults. Overrides
// then grant or revoke individual capabilities.
func (s *UserService) SetRole(ctx context.Context, id string, role models.Role, overrides map[string]bool) (*models.User, error) {
	if !role.Valid() {
		return nil, invalid("role must be one of user, team_member, sales_finance, project_manager, admin")
	}
	permissions := auth.DefaultPermissions(role)
	for name, granted := range overrides {
		capability, ok := auth.ParseCapability(name)
		if !ok {
			return nil, invalid("unknown permission " + name)
		}
		permissions.Set(capability, granted)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("User")
		}
		return nil, err
	}
	user.Role = role
	user.Permissions = permissions
	if err := s.users.Replace(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	logging.Logger.Infof("Event ID: USER_ROLE_CHANGED, Description: %s is now %s", user.Email, role)
	return user, nil
}

// Grant creates or updates the record for an email with a role and its
// default permissions. Used to bootstrap the first administrators.
func (s *UserService) Grant(ctx context.Context, email string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, invalid("role must be one of user, team_member, sales_finance, project_manager, admin")
	}
	user, err := s.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		user = &models.User{Email: email, Role: role, Permissions: auth.DefaultPermissions(role)}
		if err := s.insert(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.Permissions = auth.DefaultPermissions(role)
	if err := s.users.Replace(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("User")
		}
		return err
	}
	return nil
}

func (s *UserService) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	counts := make(map[models.Role]int64, len(models.Roles))
	for _, role := range models.Roles {
		n, err := s.users.Count(ctx, store.Filter{"role": role})
		if err != nil {
			return nil, err
		}
		counts[role] = n
	}
	return counts, nil
}

func (s *UserService) insert(ctx context.Context, user *models.User) error {
	user.ApplyDefaults()
	if err := user.Validate(); err != nil {
		return classify(err, "")
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return classify(err, "User with this email already exists")
	}
	return nil
}

// Profile is what GET /api/users/me returns.
type Profile struct {
	ID          string             `json:"_id,omitempty"`
	ClerkUserID string             `json:"clerkUserId"`
	Email       string             `json:"email"`
	Role        models.Role        `json:"role"`
	Permissions models.Permissions `json:"permissions"`
	Superuser   bool               `json:"isSuperuser"`
}

func (s *UserService) Me(identity *auth.Identity) Profile {
	profile := Profile{
		ClerkUserID: identity.UserID,
		Email:       identity.Email,
		Role:        identity.Role,
		Permissions: identity.Permissions,
		Superuser:   identity.Superuser,
	}
	if identity.User != nil {
		profile.ID = identity.User.ID.Hex()
		if profile.ClerkUserID == "" {
			profile.ClerkUserID = identity.User.ClerkUserID
		}
	}
	return profile
}
