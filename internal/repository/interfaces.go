package repository

import (
	"context"

	"github.com/rgoodwin/leaguelotto/internal/report"
)

// RunRepository defines lottery-run persistence operations.
type RunRepository interface {
	SaveRun(ctx context.Context, doc report.Document) error
	ListRuns(ctx context.Context) ([]RunSummary, error)
	GetRun(ctx context.Context, id string) (report.Document, error)
	DeleteRun(ctx context.Context, id string) error
}
