package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/rgoodwin/leaguelotto/internal/logger"
	"github.com/rgoodwin/leaguelotto/internal/lottery"
	"github.com/rgoodwin/leaguelotto/internal/models"
	"github.com/rgoodwin/leaguelotto/internal/report"
	"github.com/rgoodwin/leaguelotto/internal/repository"
)

// LotteryService runs the allocation engine and persists the results
type LotteryService struct {
	log         logger.Logger
	repo        repository.RunRepository
	source      InputSource
	globalCap   int
	broadcaster Broadcaster
}

// NewLotteryService creates a new lottery service. source may be nil
// when the caller always supplies pre-loaded inputs.
func NewLotteryService(log logger.Logger, repo repository.RunRepository, source InputSource, globalCap int) *LotteryService {
	return &LotteryService{
		log:       log,
		repo:      repo,
		source:    source,
		globalCap: globalCap,
	}
}

// SetBroadcaster sets the broadcaster for run notifications
func (s *LotteryService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Run executes one lottery over the given inputs, persists the
// resulting document, and notifies dashboard clients. The inputs are
// mutated in place and must not be reused for another run.
func (s *LotteryService) Run(ctx context.Context, leagues []*models.League, registrants []*models.Registrant, seed int64) (report.Document, error) {
	if seed < 0 {
		return report.Document{}, ErrInvalidSeed
	}

	s.log.Info("starting lottery run", "seed", seed, "leagues", len(leagues), "registrants", len(registrants))

	engine := lottery.NewEngine(s.log, rand.New(rand.NewSource(seed)), s.globalCap)
	if err := engine.Run(leagues, registrants); err != nil {
		return report.Document{}, err
	}

	doc := report.BuildDocument(uuid.NewString(), seed, time.Now().UTC(), leagues, registrants)
	if err := s.repo.SaveRun(ctx, doc); err != nil {
		return report.Document{}, err
	}

	s.log.Info("lottery run complete", "run_id", doc.RunID, "seed", seed)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastRunCompleted(repository.RunSummary{
			ID:              doc.RunID,
			Seed:            doc.Seed,
			CreatedAt:       doc.CreatedAt,
			LeagueCount:     len(doc.Leagues),
			RegistrantCount: len(doc.Players),
		})
	}

	return doc, nil
}

// RunFromSource loads fresh inputs from the configured source and runs
// the lottery over them. Used by the dashboard re-run endpoint.
func (s *LotteryService) RunFromSource(ctx context.Context, seed int64) (report.Document, error) {
	if s.source == nil {
		return report.Document{}, ErrNoInputSource
	}

	leagues, registrants, err := s.source.Load(ctx)
	if err != nil {
		return report.Document{}, err
	}

	return s.Run(ctx, leagues, registrants, seed)
}
