package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/desas/internal/core/access"
	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/ports/secondary"
)

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userRepo secondary.UserRepository
	identity secondary.IdentityProvider
}

// NewUserService creates a new UserService with injected dependencies.
func NewUserService(userRepo secondary.UserRepository, identity secondary.IdentityProvider) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo: userRepo,
		identity: identity,
	}
}

// CreateUser adds a user. On an empty directory anyone may create the first
// user, which must be an admin; afterwards only admins may add users.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count == 0 {
		if req.Role != string(access.RoleAdmin) {
			return nil, fmt.Errorf("%w: the first user must be an admin", primary.ErrValidation)
		}
	} else if _, _, err := authorize(ctx, s.identity, func(id *access.Identity) access.Decision {
		return access.RequireRole(id, access.RoleAdmin)
	}); err != nil {
		return nil, err
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("%w: username %q is taken", primary.ErrValidation, req.Username)
	} else if !errors.Is(err, secondary.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	nextID, err := s.userRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	record := &secondary.UserRecord{
		ID:           nextID,
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		Organization: req.Organization,
		Role:         req.Role,
	}
	if err := s.userRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	created, err := s.userRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created user: %w", err)
	}
	return recordToUser(created), nil
}

// GetUser retrieves a user. Non-admins can only look themselves up.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID string) (*primary.User, error) {
	who, id, err := authorize(ctx, s.identity, access.RequireAuthenticated)
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin() && who.UserID != userID {
		return nil, denied(access.RequireRole(id, access.RoleAdmin))
	}

	record, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user %s", userID)
	}
	return recordToUser(record), nil
}

// ListUsers lists users.
func (s *UserServiceImpl) ListUsers(ctx context.Context, filters primary.UserFilters) ([]*primary.User, error) {
	if _, _, err := authorize(ctx, s.identity, func(id *access.Identity) access.Decision {
		return access.RequireRole(id, access.RoleAdmin)
	}); err != nil {
		return nil, err
	}

	records, err := s.userRepo.List(ctx, secondary.UserFilters{
		Role:  filters.Role,
		Limit: filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*primary.User, len(records))
	for i, r := range records {
		users[i] = recordToUser(r)
	}
	return users, nil
}

// WhoAmI returns the caller.
func (s *UserServiceImpl) WhoAmI(ctx context.Context) (*primary.User, error) {
	who, _, err := authorize(ctx, s.identity, access.RequireAuthenticated)
	if err != nil {
		return nil, err
	}

	record, err := s.userRepo.GetByID(ctx, who.UserID)
	if err != nil {
		return nil, notFound(err, "user %s", who.UserID)
	}
	return recordToUser(record), nil
}

// Helper methods

func recordToUser(r *secondary.UserRecord) *primary.User {
	return &primary.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		Phone:        r.Phone,
		Organization: r.Organization,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt,
	}
}

// Ensure UserServiceImpl implements the interface.
var _ primary.UserService = (*UserServiceImpl)(nil)
