package cli

import (
	"errors"
	"fmt"

	"github.com/example/desas/internal/ports/primary"
)

// FormatError renders a command error for the terminal, adding a hint for access failures.
func FormatError(err error) string {
	switch {
	case errors.Is(err, primary.ErrUnauthenticated):
		return fmt.Sprintf("Error: %v\nHint: log in with 'desas auth login <username>'", err)
	case errors.Is(err, primary.ErrPermission):
		return fmt.Sprintf("Error: %v\nHint: 'desas auth whoami' shows which user you are acting as", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
