package primary

import "context"

// UserService defines the primary port for the user directory.
type UserService interface {
	// CreateUser adds a user. Only admins may call it once a user exists.
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*User, error)

	// ListUsers lists users (admin only).
	ListUsers(ctx context.Context, filters UserFilters) ([]*User, error)

	// WhoAmI returns the caller.
	WhoAmI(ctx context.Context) (*User, error)
}

// GuardService defines the primary port for the guard roster.
type GuardService interface {
	// SaveGuardProfile creates or updates a guard's profile. Saving resets approval.
	SaveGuardProfile(ctx context.Context, req SaveGuardProfileRequest) (*Guard, error)

	// ApproveGuard marks a guard as deployable.
	ApproveGuard(ctx context.Context, userID string) (*Guard, error)

	// ListGuards lists guards with their profiles (admin only).
	ListGuards(ctx context.Context, filters GuardFilters) ([]*Guard, error)

	// RejectGuard removes a guard and their profile from the system (admin only).
	// Guards still on an active assignment are refused.
	RejectGuard(ctx context.Context, userID string) (*Guard, error)
}

// CreateUserRequest contains parameters for creating a user.
type CreateUserRequest struct {
	Username     string `validate:"required,alphanum,max=150"`
	Email        string `validate:"required,email"`
	Phone        string `validate:"omitempty,e164"`
	Organization string `validate:"max=100"`
	Role         string `validate:"required,oneof=admin event_registrar security_guard"`
}

// UserFilters contains filter options for listing users.
type UserFilters struct {
	Role  string
	Limit int
}

// User represents a user at the port boundary.
type User struct {
	ID           string
	Username     string
	Email        string
	Phone        string
	Organization string
	Role         string
	CreatedAt    string
}

// SaveGuardProfileRequest contains parameters for a guard profile.
type SaveGuardProfileRequest struct {
	UserID     string `validate:"required"`
	CNIC       string `validate:"required,max=15"`
	Age        int    `validate:"gte=18,lte=80"`
	Experience int    `validate:"gte=0"`
	GuardType  string `validate:"required,oneof=police commando security_guard"`
}

// GuardFilters contains filter options for listing guards.
type GuardFilters struct {
	ApprovedOnly bool
	GuardType    string
}

// Guard represents a security guard and profile at the port boundary.
type Guard struct {
	User       *User
	CNIC       string
	Age        int
	Experience int
	GuardType  string
	HasProfile bool
	IsApproved bool
}
