package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/example/desas/internal/adapters/sqlite"
	"github.com/example/desas/internal/ports/secondary"
)

func setupReviewTestDB(t *testing.T) (*sql.DB, *sqlite.ReviewRepository, context.Context) {
	t.Helper()
	db := setupTestDB(t)
	seedUser(t, db, "USR-0002", "registrar", "event_registrar")
	seedUser(t, db, "USR-0005", "registrar2", "event_registrar")
	seedEvent(t, db, "EVT-0001", "USR-0002", "completed")
	seedEvent(t, db, "EVT-0002", "USR-0005", "assigned")
	return db, sqlite.NewReviewRepository(db), context.Background()
}

func createReview(t *testing.T, repo *sqlite.ReviewRepository, ctx context.Context, id, eventID, registrarID string, rating int) {
	t.Helper()
	err := repo.Create(ctx, &secondary.ReviewRecord{
		ID:          id,
		EventID:     eventID,
		RegistrarID: registrarID,
		Message:     "Review " + id,
		Rating:      rating,
	})
	if err != nil {
		t.Fatalf("Create %s failed: %v", id, err)
	}
}

func TestReviewRepository_CreateAndGet(t *testing.T) {
	_, repo, ctx := setupReviewTestDB(t)

	createReview(t, repo, ctx, "REV-0001", "EVT-0001", "USR-0002", 4)

	got, err := repo.GetByID(ctx, "REV-0001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.EventName != "Event EVT-0001" || got.RegistrarName != "registrar" {
		t.Errorf("expected joined names, got %q / %q", got.EventName, got.RegistrarName)
	}
	if got.Rating != 4 || got.Message != "Review REV-0001" {
		t.Errorf("unexpected review %+v", got)
	}
	if got.CreatedAt == "" {
		t.Error("expected created_at to be set")
	}

	if _, err := repo.GetByID(ctx, "REV-0099"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReviewRepository_Create_Errors(t *testing.T) {
	_, repo, ctx := setupReviewTestDB(t)

	createReview(t, repo, ctx, "REV-0001", "EVT-0001", "USR-0002", 5)

	err := repo.Create(ctx, &secondary.ReviewRecord{ID: "REV-0001", EventID: "EVT-0001", RegistrarID: "USR-0002", Message: "again", Rating: 5})
	if !errors.Is(err, secondary.ErrIDTaken) {
		t.Errorf("expected ErrIDTaken, got %v", err)
	}

	err = repo.Create(ctx, &secondary.ReviewRecord{ID: "REV-0002", EventID: "EVT-0001", RegistrarID: "USR-0002", Message: "bad", Rating: 0})
	if err == nil {
		t.Error("expected the rating check to reject 0")
	}
}

func TestReviewRepository_List(t *testing.T) {
	_, repo, ctx := setupReviewTestDB(t)

	createReview(t, repo, ctx, "REV-0001", "EVT-0001", "USR-0002", 5)
	createReview(t, repo, ctx, "REV-0002", "EVT-0002", "USR-0005", 3)
	createReview(t, repo, ctx, "REV-0003", "EVT-0001", "USR-0002", 2)

	tests := []struct {
		name    string
		filters secondary.ReviewFilters
		want    []string
	}{
		{"all newest first", secondary.ReviewFilters{}, []string{"REV-0003", "REV-0002", "REV-0001"}},
		{"by event", secondary.ReviewFilters{EventID: "EVT-0001"}, []string{"REV-0003", "REV-0001"}},
		{"by registrar", secondary.ReviewFilters{RegistrarID: "USR-0005"}, []string{"REV-0002"}},
		{"limit", secondary.ReviewFilters{Limit: 1}, []string{"REV-0003"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews, err := repo.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(reviews) != len(tt.want) {
				t.Fatalf("expected %d reviews, got %d", len(tt.want), len(reviews))
			}
			for i, id := range tt.want {
				if reviews[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, reviews[i].ID)
				}
			}
		})
	}
}

func TestReviewRepository_CascadesWithEvent(t *testing.T) {
	db, repo, ctx := setupReviewTestDB(t)

	createReview(t, repo, ctx, "REV-0001", "EVT-0001", "USR-0002", 5)
	if _, err := db.Exec("DELETE FROM events WHERE id = 'EVT-0001'"); err != nil {
		t.Fatalf("failed to delete event: %v", err)
	}
	if _, err := repo.GetByID(ctx, "REV-0001"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected review to cascade, got %v", err)
	}
}

func TestReviewRepository_GetNextID(t *testing.T) {
	_, repo, ctx := setupReviewTestDB(t)

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "REV-0001" {
		t.Errorf("expected REV-0001, got %s", id)
	}

	createReview(t, repo, ctx, "REV-0007", "EVT-0001", "USR-0002", 5)
	id, _ = repo.GetNextID(ctx)
	if id != "REV-0008" {
		t.Errorf("expected REV-0008, got %s", id)
	}
}
