package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/desas/internal/core/access"
	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/ports/secondary"
)

var validate = validator.New()

// caller resolves the current identity. A nil result means nobody is logged in.
func caller(ctx context.Context, provider secondary.IdentityProvider) (*secondary.Identity, *access.Identity, error) {
	id, err := provider.CurrentIdentity(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve caller: %w", err)
	}
	if id == nil {
		return nil, nil, nil
	}
	return id, &access.Identity{UserID: id.UserID, Role: access.Role(id.Role)}, nil
}

// authorize resolves the caller and evaluates check against it.
func authorize(ctx context.Context, provider secondary.IdentityProvider, check func(*access.Identity) access.Decision) (*secondary.Identity, *access.Identity, error) {
	id, pid, err := caller(ctx, provider)
	if err != nil {
		return nil, nil, err
	}
	if err := denied(check(pid)); err != nil {
		return nil, nil, err
	}
	return id, pid, nil
}

// denied converts a policy decision into the matching primary error.
func denied(d access.Decision) error {
	if d.Allowed {
		return nil
	}
	if d.Kind == access.DenialUnauthenticated {
		return fmt.Errorf("%w: %s", primary.ErrUnauthenticated, d.Reason)
	}
	return fmt.Errorf("%w: %s", primary.ErrPermission, d.Reason)
}

// invalid wraps a guard failure as a validation error.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", primary.ErrValidation, err.Error())
}

// validateRequest runs struct tag validation on req.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", primary.ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", primary.ErrValidation, strings.Join(msgs, "; "))
}

// notFound maps a repository miss onto the primary error, leaving other errors wrapped as-is.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, secondary.ErrNotFound) {
		return fmt.Errorf("%w: %s", primary.ErrNotFound, fmt.Sprintf(format, args...))
	}
	return fmt.Errorf("failed to load %s: %w", fmt.Sprintf(format, args...), err)
}
