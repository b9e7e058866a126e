// Package persistence contains adapters that resolve callers against stored data.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/desas/internal/ctxutil"
	"github.com/example/desas/internal/ports/secondary"
)

// UserIdentityProvider resolves the user ID carried in the context against the user table.
// The CLI puts the session user there; the HTTP layer puts the token subject there.
type UserIdentityProvider struct {
	users secondary.UserRepository
}

// NewUserIdentityProvider creates a new UserIdentityProvider.
func NewUserIdentityProvider(users secondary.UserRepository) *UserIdentityProvider {
	return &UserIdentityProvider{users: users}
}

// CurrentIdentity returns the caller, or nil when nobody is logged in or the user no longer exists.
func (p *UserIdentityProvider) CurrentIdentity(ctx context.Context) (*secondary.Identity, error) {
	userID := ctxutil.ActorFromContext(ctx)
	if userID == "" {
		return nil, nil
	}

	user, err := p.users.GetByID(ctx, userID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	return &secondary.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		Email:    user.Email,
		Phone:    user.Phone,
	}, nil
}

// Ensure UserIdentityProvider implements the interface
var _ secondary.IdentityProvider = (*UserIdentityProvider)(nil)
