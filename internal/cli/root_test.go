package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRootCmd_CommandTree(t *testing.T) {
	root := RootCmd()

	paths := []string{
		"auth login", "auth logout", "auth whoami", "auth token",
		"user add", "user list",
		"guard list", "guard approve", "guard reject", "guard profile",
		"event register", "event list", "event show", "event approve", "event reject", "event complete",
		"duty assign", "duty set-guards", "duty list", "duty show", "duty reject", "duty complete",
		"review add", "review list",
		"dashboard",
		"log list",
		"serve", "version",
		"dev reset", "dev seed",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			cmd, _, err := root.Find(strings.Fields(path))
			if err != nil {
				t.Fatalf("Find(%q) failed: %v", path, err)
			}
			want := strings.Fields(path)
			if cmd.Name() != want[len(want)-1] {
				t.Errorf("Find(%q) resolved to %q", path, cmd.CommandPath())
			}
		})
	}
}

func TestDutyCmd_AssignmentAlias(t *testing.T) {
	cmd, _, err := RootCmd().Find([]string{"assignment", "list"})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if cmd.CommandPath() != "desas duty list" {
		t.Errorf("expected alias to resolve to 'desas duty list', got %q", cmd.CommandPath())
	}
}

func TestEventRegisterCmd_RequiredFlags(t *testing.T) {
	cmd := eventRegisterCmd()
	for _, name := range []string{"name", "type", "at", "location"} {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("missing flag --%s", name)
		}
		if _, ok := f.Annotations[cobra.BashCompOneRequiredFlag]; !ok {
			t.Errorf("expected --%s to be required", name)
		}
	}
}

func TestReviewAddCmd_RequiredFlags(t *testing.T) {
	cmd := reviewAddCmd()
	for _, name := range []string{"event", "message"} {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("missing flag --%s", name)
		}
		if _, ok := f.Annotations[cobra.BashCompOneRequiredFlag]; !ok {
			t.Errorf("expected --%s to be required", name)
		}
	}
	if f := cmd.Flags().Lookup("rating"); f == nil || f.DefValue != "0" {
		t.Errorf("expected optional --rating defaulting to 0, got %+v", f)
	}
}
