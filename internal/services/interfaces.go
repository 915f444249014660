package services

import (
	"context"

	"github.com/rgoodwin/leaguelotto/internal/models"
	"github.com/rgoodwin/leaguelotto/internal/report"
	"github.com/rgoodwin/leaguelotto/internal/repository"
)

// InputSource produces a fresh, unmutated copy of the lottery inputs.
// The engine consumes its output destructively, so every run needs a
// new load.
type InputSource interface {
	Load(ctx context.Context) (leagues []*models.League, registrants []*models.Registrant, err error)
}

// LotteryServicer defines the interface for running lotteries
type LotteryServicer interface {
	Run(ctx context.Context, leagues []*models.League, registrants []*models.Registrant, seed int64) (report.Document, error)
	RunFromSource(ctx context.Context, seed int64) (report.Document, error)
	SetBroadcaster(b Broadcaster)
}

// ResultsServicer defines the interface for reading stored runs
type ResultsServicer interface {
	ListRuns(ctx context.Context) ([]repository.RunSummary, error)
	GetRun(ctx context.Context, id string) (report.Document, error)
	GetLeague(ctx context.Context, runID string, leagueID int) (report.LeagueResult, error)
	DeleteRun(ctx context.Context, id string) error
	RosterQR(ctx context.Context, runID string, leagueID int, baseURL string) ([]byte, error)
}

// Broadcaster defines the interface for pushing updates to connected
// dashboard clients
type Broadcaster interface {
	BroadcastRunCompleted(summary repository.RunSummary)
}
