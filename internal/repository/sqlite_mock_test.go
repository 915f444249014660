package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// TestListRuns_QueryError tests database failure during listing
func TestListRuns_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM runs").WillReturnError(sqlmock.ErrCancelled)

	if _, err := repo.ListRuns(ctx); err == nil {
		t.Error("expected error from query failure, got nil")
	}
}

// TestListRuns_ScanError tests row scanning error
func TestListRuns_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	ctx := context.Background()

	// seed should be an integer, not free text
	rows := sqlmock.NewRows([]string{"id", "seed", "created_at", "league_count", "registrant_count"}).
		AddRow("run-1", "not-a-number", "not-a-time", 1, 1)

	mock.ExpectQuery("SELECT (.+) FROM runs").WillReturnRows(rows)

	if _, err := repo.ListRuns(ctx); err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

// TestGetRun_CorruptDocument tests an undecodable stored document
func TestGetRun_CorruptDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"document"}).AddRow("{not json")
	mock.ExpectQuery("SELECT document FROM runs").WillReturnRows(rows)

	if _, err := repo.GetRun(ctx, "run-1"); err == nil {
		t.Error("expected error for corrupt document, got nil")
	}
}
