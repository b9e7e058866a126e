package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/desas/internal/adapters/sqlite"
	"github.com/example/desas/internal/ports/secondary"
)

func TestGuardProfileRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewGuardProfileRepository(db)
	ctx := context.Background()

	seedUser(t, db, "USR-0001", "guard1", "security_guard")

	profile := &secondary.GuardProfileRecord{
		UserID:     "USR-0001",
		CNIC:       "35202-1234567-1",
		Age:        31,
		Experience: 4,
		GuardType:  "commando",
		IsApproved: true,
	}
	if err := repo.Upsert(ctx, profile); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	profile.Age = 32
	profile.IsApproved = false
	if err := repo.Upsert(ctx, profile); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	got, err := repo.GetByUserID(ctx, "USR-0001")
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if got.Age != 32 {
		t.Errorf("expected age 32, got %d", got.Age)
	}
	if got.IsApproved {
		t.Error("expected profile to be unapproved after update")
	}
	if got.GuardType != "commando" {
		t.Errorf("expected guard type 'commando', got %q", got.GuardType)
	}
}

func TestGuardProfileRepository_Upsert_DuplicateCNIC(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewGuardProfileRepository(db)
	ctx := context.Background()

	seedUser(t, db, "USR-0001", "guard1", "security_guard")
	seedUser(t, db, "USR-0002", "guard2", "security_guard")
	seedGuardProfile(t, db, "USR-0001", "CNIC-1", true)

	err := repo.Upsert(ctx, &secondary.GuardProfileRecord{
		UserID:    "USR-0002",
		CNIC:      "CNIC-1",
		Age:       25,
		GuardType: "police",
	})
	if !errors.Is(err, secondary.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestGuardProfileRepository_SetApproved(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewGuardProfileRepository(db)
	ctx := context.Background()

	seedUser(t, db, "USR-0001", "guard1", "security_guard")
	seedGuardProfile(t, db, "USR-0001", "CNIC-1", false)

	if err := repo.SetApproved(ctx, "USR-0001", true); err != nil {
		t.Fatalf("SetApproved failed: %v", err)
	}
	got, err := repo.GetByUserID(ctx, "USR-0001")
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if !got.IsApproved {
		t.Error("expected profile to be approved")
	}

	err = repo.SetApproved(ctx, "USR-0404", true)
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGuardProfileRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewGuardProfileRepository(db)
	ctx := context.Background()

	seedUser(t, db, "USR-0001", "guard1", "security_guard")
	seedUser(t, db, "USR-0002", "guard2", "security_guard")
	seedGuardProfile(t, db, "USR-0001", "CNIC-1", true)
	seedGuardProfile(t, db, "USR-0002", "CNIC-2", false)

	all, err := repo.List(ctx, secondary.GuardProfileFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 profiles, got %d", len(all))
	}

	approved, err := repo.List(ctx, secondary.GuardProfileFilters{ApprovedOnly: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(approved) != 1 || approved[0].UserID != "USR-0001" {
		t.Errorf("expected only USR-0001, got %+v", approved)
	}

	commandos, err := repo.List(ctx, secondary.GuardProfileFilters{GuardType: "commando"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(commandos) != 0 {
		t.Errorf("expected no commandos, got %d", len(commandos))
	}
}

func TestGuardProfileRepository_CascadesWithUser(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewGuardProfileRepository(db)
	ctx := context.Background()

	seedUser(t, db, "USR-0001", "guard1", "security_guard")
	seedGuardProfile(t, db, "USR-0001", "CNIC-1", true)

	if _, err := db.Exec("DELETE FROM users WHERE id = ?", "USR-0001"); err != nil {
		t.Fatalf("delete user failed: %v", err)
	}

	_, err := repo.GetByUserID(ctx, "USR-0001")
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected profile to be removed with its user, got %v", err)
	}
}
