package repository

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/rgoodwin/leaguelotto/internal/report"
)

// newTestRepo creates a new in-memory repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleDoc(id string, created time.Time) report.Document {
	return report.Document{
		RunID:     id,
		Seed:      42,
		CreatedAt: created,
		Leagues: []report.LeagueResult{
			{
				ID: 1, Name: "Monday Men's", Capacity: 3, SpotsRemaining: 0,
				Roster:   []report.Member{{ID: "100", Name: "Ada Park", Email: "ada@club.test"}},
				Waitlist: []report.Member{{ID: "101", Name: "Ben Ochoa", Email: "ben@club.test"}},
			},
		},
		Players: []report.PlayerResult{
			{ID: "100", Name: "Ada Park", Email: "ada@club.test", Desired: 1, Assignments: []int{1}},
			{ID: "101", Name: "Ben Ochoa", Email: "ben@club.test", Desired: 1, WaitlistAssignments: []int{1}},
		},
	}
}

func TestSaveRun_AndGetRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC)

	if err := repo.SaveRun(ctx, sampleDoc("run-1", created)); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	doc, err := repo.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if doc.RunID != "run-1" || doc.Seed != 42 {
		t.Errorf("unexpected metadata: %+v", doc)
	}
	if len(doc.Leagues) != 1 || doc.Leagues[0].Name != "Monday Men's" {
		t.Errorf("unexpected leagues: %+v", doc.Leagues)
	}
	if len(doc.Players) != 2 || doc.Players[1].WaitlistAssignments[0] != 1 {
		t.Errorf("unexpected players: %+v", doc.Players)
	}
}

func TestSaveRun_DuplicateIDFails(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	doc := sampleDoc("run-1", time.Now().UTC())

	if err := repo.SaveRun(ctx, doc); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := repo.SaveRun(ctx, doc); err == nil {
		t.Error("expected error saving duplicate run id")
	}
}

func TestGetRun_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetRun(context.Background(), "missing")
	if !stderrors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-old", "run-mid", "run-new"} {
		doc := sampleDoc(id, base.Add(time.Duration(i)*time.Hour))
		if err := repo.SaveRun(ctx, doc); err != nil {
			t.Fatalf("SaveRun %s failed: %v", id, err)
		}
	}

	runs, err := repo.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-new" || runs[2].ID != "run-old" {
		t.Errorf("expected newest first, got %v %v %v", runs[0].ID, runs[1].ID, runs[2].ID)
	}
	if runs[0].LeagueCount != 1 || runs[0].RegistrantCount != 2 {
		t.Errorf("unexpected counts: %+v", runs[0])
	}
}

func TestListRuns_Empty(t *testing.T) {
	repo := newTestRepo(t)

	runs, err := repo.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestDeleteRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveRun(ctx, sampleDoc("run-1", time.Now().UTC())); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := repo.DeleteRun(ctx, "run-1"); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	if _, err := repo.GetRun(ctx, "run-1"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("expected run gone, got %v", err)
	}

	if err := repo.DeleteRun(ctx, "run-1"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}
