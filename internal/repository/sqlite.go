package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rgoodwin/leaguelotto/internal/errors"
	"github.com/rgoodwin/leaguelotto/internal/report"
)

// Repository stores completed lottery runs in SQLite.
type Repository struct {
	db *sql.DB
}

// RunSummary is the run metadata shown in listings.
type RunSummary struct {
	ID              string    `json:"id"`
	Seed            int64     `json:"seed"`
	CreatedAt       time.Time `json:"created_at"`
	LeagueCount     int       `json:"league_count"`
	RegistrantCount int       `json:"registrant_count"`
}

// New creates a Repository backed by the SQLite file at dbPath.
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			league_count INTEGER NOT NULL,
			registrant_count INTEGER NOT NULL,
			document TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
	}
	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "migration failed")
		}
	}
	return nil
}

// SaveRun stores a completed run. The full document is kept as JSON so
// a run can be re-rendered later exactly as it finished.
func (r *Repository) SaveRun(ctx context.Context, doc report.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode run document")
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO runs (id, seed, created_at, league_count, registrant_count, document)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.RunID, doc.Seed, doc.CreatedAt, len(doc.Leagues), len(doc.Players), string(payload))
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to save run")
	}
	return nil
}

// ListRuns returns run summaries, newest first.
func (r *Repository) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, seed, created_at, league_count, registrant_count
		 FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to list runs")
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.Seed, &s.CreatedAt, &s.LeagueCount, &s.RegistrantCount); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to scan run summary")
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetRun returns the stored document for one run, or ErrNotFound.
func (r *Repository) GetRun(ctx context.Context, id string) (report.Document, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM runs WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return report.Document{}, ErrNotFound
	}
	if err != nil {
		return report.Document{}, errors.Wrap(err, errors.ErrInternal, "failed to load run")
	}

	var doc report.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return report.Document{}, errors.Wrap(err, errors.ErrInternal, "stored run document is corrupt")
	}
	return doc, nil
}

// DeleteRun removes a stored run, or returns ErrNotFound.
func (r *Repository) DeleteRun(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to delete run")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to delete run")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
