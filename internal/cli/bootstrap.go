// Package cli provides CLI commands for the DESAS application.
package cli

import (
	gocontext "context"
	"time"

	"github.com/example/desas/internal/config"
	"github.com/example/desas/internal/ctxutil"
)

// globalActorID stores the logged-in user for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// sessionDir overrides config.DefaultDir() in tests.
var sessionDir string

// now is replaced in tests.
var now = time.Now

func resolveSessionDir() (string, error) {
	if sessionDir != "" {
		return sessionDir, nil
	}
	return config.DefaultDir()
}

// DetectAndStoreActor reads the saved session and stores its user globally.
// A missing, unreadable or expired session leaves the CLI anonymous.
// Should be called once at CLI startup in PersistentPreRun.
func DetectAndStoreActor() {
	globalActorID = ""

	dir, err := resolveSessionDir()
	if err != nil {
		return
	}
	session, err := config.LoadSession(dir)
	if err != nil || session == nil {
		return
	}
	if !session.ExpiresAt.IsZero() && now().After(session.ExpiresAt) {
		return
	}
	globalActorID = session.UserID
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if nobody is logged in.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}
