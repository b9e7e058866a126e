package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/desas/internal/auth"
	"github.com/example/desas/internal/config"
	"github.com/example/desas/internal/ports/secondary"
	"github.com/example/desas/internal/wire"
)

// AuthCmd returns the auth command group.
func AuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in, log out and issue API tokens",
	}

	cmd.AddCommand(authLoginCmd())
	cmd.AddCommand(authLogoutCmd())
	cmd.AddCommand(authWhoAmICmd())
	cmd.AddCommand(authTokenCmd())
	return cmd
}

func lookupUser(username string) (*secondary.UserRecord, error) {
	user, err := wire.UserRepository().GetByUsername(NewContext(), username)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, fmt.Errorf("unknown user %q", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

func authLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Act as the given user for subsequent commands",
		Long: `Save a session for the given user in ~/.desas/session.json.
When DESAS_JWT_SECRET is set a bearer token for the HTTP API is stored with it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := lookupUser(args[0])
			if err != nil {
				return err
			}

			session := &config.Session{
				UserID:    user.ID,
				Username:  user.Username,
				Role:      user.Role,
				ExpiresAt: now().Add(wire.Config().TokenTTL).UTC(),
			}
			issuer, err := wire.TokenIssuer()
			switch {
			case err == nil:
				token, expires, err := issuer.Issue(user.ID, user.Role)
				if err != nil {
					return err
				}
				session.Token = token
				session.ExpiresAt = expires
			case !errors.Is(err, auth.ErrNoSecret):
				return err
			}

			dir, err := resolveSessionDir()
			if err != nil {
				return err
			}
			if err := config.SaveSession(dir, session); err != nil {
				return err
			}

			fmt.Printf("✓ Logged in as %s (%s) - %s\n", user.Username, user.ID, user.Role)
			fmt.Printf("  Session expires %s\n", session.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveSessionDir()
			if err != nil {
				return err
			}
			if err := config.ClearSession(dir); err != nil {
				return err
			}
			fmt.Println("✓ Logged out")
			return nil
		},
	}
}

func authWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user you are acting as",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.RosterAdapter().WhoAmI(NewContext())
		},
	}
}

func authTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token [username]",
		Short: "Print a bearer token for the HTTP API",
		Long: `Print a signed bearer token for the given user, or for the logged-in
user when no username is given. Requires DESAS_JWT_SECRET.

Example:
  curl -H "Authorization: Bearer $(desas auth token registrar)" localhost:8080/api/events`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issuer, err := wire.TokenIssuer()
			if err != nil {
				return err
			}

			var user *secondary.UserRecord
			if len(args) == 1 {
				user, err = lookupUser(args[0])
			} else if GetActorID() != "" {
				user, err = wire.UserRepository().GetByID(NewContext(), GetActorID())
			} else {
				return fmt.Errorf("not logged in: pass a username or run 'desas auth login <username>'")
			}
			if err != nil {
				return err
			}

			token, _, err := issuer.Issue(user.ID, user.Role)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
}
