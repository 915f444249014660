package services

import (
	"context"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/rgoodwin/leaguelotto/internal/logger"
	"github.com/rgoodwin/leaguelotto/internal/report"
	"github.com/rgoodwin/leaguelotto/internal/repository"
)

// qrSize is the pixel width of generated roster QR codes
const qrSize = 256

// ResultsService reads stored runs back out of the repository
type ResultsService struct {
	log  logger.Logger
	repo repository.RunRepository
}

// NewResultsService creates a new results service
func NewResultsService(log logger.Logger, repo repository.RunRepository) *ResultsService {
	return &ResultsService{log: log, repo: repo}
}

// ListRuns returns summaries of all stored runs, newest first
func (s *ResultsService) ListRuns(ctx context.Context) ([]repository.RunSummary, error) {
	return s.repo.ListRuns(ctx)
}

// GetRun returns the full results document for one run
func (s *ResultsService) GetRun(ctx context.Context, id string) (report.Document, error) {
	return s.repo.GetRun(ctx, id)
}

// GetLeague returns a single league's results from a stored run
func (s *ResultsService) GetLeague(ctx context.Context, runID string, leagueID int) (report.LeagueResult, error) {
	doc, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return report.LeagueResult{}, err
	}
	for _, l := range doc.Leagues {
		if l.ID == leagueID {
			return l, nil
		}
	}
	return report.LeagueResult{}, &LeagueNotFoundError{RunID: runID, LeagueID: leagueID}
}

// DeleteRun removes a stored run
func (s *ResultsService) DeleteRun(ctx context.Context, id string) error {
	if err := s.repo.DeleteRun(ctx, id); err != nil {
		return err
	}
	s.log.Info("deleted run", "run_id", id)
	return nil
}

// RosterQR generates a QR code PNG linking to a league's roster page.
// Coordinators print these for the clubhouse board.
func (s *ResultsService) RosterQR(ctx context.Context, runID string, leagueID int, baseURL string) ([]byte, error) {
	// Validate the target exists before handing out a link to it.
	if _, err := s.GetLeague(ctx, runID, leagueID); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/runs/%s/leagues/%d", baseURL, runID, leagueID)
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("generating QR code: %w", err)
	}
	return png, nil
}
