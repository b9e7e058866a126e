package primary

import "errors"

// Error kinds surfaced by every primary port. Services wrap them with context;
// adapters test with errors.Is to choose an outcome.
var (
	// ErrValidation marks bad input or an illegal transition. Nothing was changed.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated marks a call without a logged-in user.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrPermission marks a logged-in user lacking the role or ownership required.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound marks a lookup miss, including lookups scoped to the caller.
	ErrNotFound = errors.New("not found")
)
