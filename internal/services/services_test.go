package services

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgoodwin/leaguelotto/internal/logger"
	"github.com/rgoodwin/leaguelotto/internal/models"
	"github.com/rgoodwin/leaguelotto/internal/repository"
	"github.com/rgoodwin/leaguelotto/internal/testutil"
)

// recordingBroadcaster captures run notifications for assertions
type recordingBroadcaster struct {
	summaries []repository.RunSummary
}

func (b *recordingBroadcaster) BroadcastRunCompleted(summary repository.RunSummary) {
	b.summaries = append(b.summaries, summary)
}

// stubSource builds a fresh two-registrant fixture on every Load call
type stubSource struct {
	loads int
	err   error
}

func (s *stubSource) Load(ctx context.Context) ([]*models.League, []*models.Registrant, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	s.loads++
	leagues, registrants := fixtureInputs()
	return leagues, registrants, nil
}

func testLogger() logger.Logger {
	return logger.NewWithWriter(io.Discard, slog.LevelError)
}

// fixtureInputs returns one league with two usable spots and two
// registrants who both want it.
func fixtureInputs() ([]*models.League, []*models.Registrant) {
	league := models.NewLeague(1, "Monday Men's", 3)

	a := models.NewRegistrant("100", "Ada Park", "ada@club.test", 1)
	a.Prefs = []int{1}
	a.TeamOf[1] = models.NoTeam

	b := models.NewRegistrant("101", "Ben Ochoa", "ben@club.test", 1)
	b.Prefs = []int{1}
	b.TeamOf[1] = models.NoTeam

	return []*models.League{league}, []*models.Registrant{a, b}
}

func TestLotteryService_Run_PersistsAndBroadcasts(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := NewLotteryService(testLogger(), repo, nil, 0)
	bc := &recordingBroadcaster{}
	svc.SetBroadcaster(bc)

	leagues, registrants := fixtureInputs()
	doc, err := svc.Run(context.Background(), leagues, registrants, 7)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if doc.RunID == "" || doc.Seed != 7 {
		t.Errorf("unexpected document metadata: %+v", doc)
	}

	stored, err := repo.GetRun(context.Background(), doc.RunID)
	if err != nil {
		t.Fatalf("run was not persisted: %v", err)
	}
	if len(stored.Leagues) != 1 || len(stored.Players) != 2 {
		t.Errorf("unexpected stored document: %d leagues, %d players", len(stored.Leagues), len(stored.Players))
	}
	// Both fit: capacity 3 minus the reserved coordinator spot is 2.
	if len(stored.Leagues[0].Waitlist) != 0 {
		t.Errorf("expected empty waitlist, got %v", stored.Leagues[0].Waitlist)
	}

	if len(bc.summaries) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(bc.summaries))
	}
	if bc.summaries[0].ID != doc.RunID || bc.summaries[0].RegistrantCount != 2 {
		t.Errorf("unexpected broadcast summary: %+v", bc.summaries[0])
	}
}

func TestLotteryService_Run_NegativeSeedRejected(t *testing.T) {
	svc := NewLotteryService(testLogger(), testutil.NewTestRepository(t), nil, 0)

	leagues, registrants := fixtureInputs()
	_, err := svc.Run(context.Background(), leagues, registrants, -1)
	if !stderrors.Is(err, ErrInvalidSeed) {
		t.Errorf("expected ErrInvalidSeed, got %v", err)
	}
}

func TestLotteryService_Run_NoBroadcasterIsFine(t *testing.T) {
	svc := NewLotteryService(testLogger(), testutil.NewTestRepository(t), nil, 0)

	leagues, registrants := fixtureInputs()
	if _, err := svc.Run(context.Background(), leagues, registrants, 1); err != nil {
		t.Fatalf("Run without broadcaster failed: %v", err)
	}
}

func TestLotteryService_RunFromSource(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	source := &stubSource{}
	svc := NewLotteryService(testLogger(), repo, source, 0)

	for seed := int64(1); seed <= 2; seed++ {
		if _, err := svc.RunFromSource(context.Background(), seed); err != nil {
			t.Fatalf("RunFromSource seed %d failed: %v", seed, err)
		}
	}

	if source.loads != 2 {
		t.Errorf("expected 2 fresh loads, got %d", source.loads)
	}
	runs, err := repo.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 stored runs, got %d", len(runs))
	}
}

func TestLotteryService_RunFromSource_NoSource(t *testing.T) {
	svc := NewLotteryService(testLogger(), testutil.NewTestRepository(t), nil, 0)

	_, err := svc.RunFromSource(context.Background(), 1)
	if !stderrors.Is(err, ErrNoInputSource) {
		t.Errorf("expected ErrNoInputSource, got %v", err)
	}
}

func TestLotteryService_RunFromSource_LoadError(t *testing.T) {
	loadErr := stderrors.New("disk on fire")
	svc := NewLotteryService(testLogger(), testutil.NewTestRepository(t), &stubSource{err: loadErr}, 0)

	_, err := svc.RunFromSource(context.Background(), 1)
	if !stderrors.Is(err, loadErr) {
		t.Errorf("expected load error to surface, got %v", err)
	}
}

// seedRun stores one completed run and returns its id
func seedRun(t *testing.T, lotSvc *LotteryService) string {
	t.Helper()
	leagues, registrants := fixtureInputs()
	doc, err := lotSvc.Run(context.Background(), leagues, registrants, 42)
	if err != nil {
		t.Fatalf("seeding run failed: %v", err)
	}
	return doc.RunID
}

func TestResultsService_GetLeague(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	runID := seedRun(t, NewLotteryService(testLogger(), repo, nil, 0))
	svc := NewResultsService(testLogger(), repo)

	league, err := svc.GetLeague(context.Background(), runID, 1)
	if err != nil {
		t.Fatalf("GetLeague failed: %v", err)
	}
	if league.Name != "Monday Men's" || league.Capacity != 3 {
		t.Errorf("unexpected league: %+v", league)
	}

	_, err = svc.GetLeague(context.Background(), runID, 999)
	var nf *LeagueNotFoundError
	if !stderrors.As(err, &nf) {
		t.Errorf("expected LeagueNotFoundError, got %v", err)
	}
}

func TestResultsService_GetLeague_RunMissing(t *testing.T) {
	svc := NewResultsService(testLogger(), testutil.NewTestRepository(t))

	_, err := svc.GetLeague(context.Background(), "missing", 1)
	if !stderrors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResultsService_DeleteRun(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	runID := seedRun(t, NewLotteryService(testLogger(), repo, nil, 0))
	svc := NewResultsService(testLogger(), repo)

	if err := svc.DeleteRun(context.Background(), runID); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	if _, err := svc.GetRun(context.Background(), runID); !stderrors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected run gone, got %v", err)
	}
}

func TestResultsService_RosterQR(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	runID := seedRun(t, NewLotteryService(testLogger(), repo, nil, 0))
	svc := NewResultsService(testLogger(), repo)

	png, err := svc.RosterQR(context.Background(), runID, 1, "http://localhost:8080")
	if err != nil {
		t.Fatalf("RosterQR failed: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("expected PNG output")
	}

	if _, err := svc.RosterQR(context.Background(), runID, 999, "http://localhost:8080"); err == nil {
		t.Error("expected error for unknown league")
	}
}

func TestFileSource_LoadsFreshInputs(t *testing.T) {
	dir := t.TempDir()

	leaguesPath := filepath.Join(dir, "leagues.csv")
	leagueCatalog := "id,name,capacity,team_column\n1,Monday Men's,40,Men's: Team\n"
	if err := os.WriteFile(leaguesPath, []byte(leagueCatalog), 0o644); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}

	registrantsPath := filepath.Join(dir, "registrants.csv")
	export := "Member ID,First Name,Last Name,Email,League Lottery - Max # of Leagues Desired," +
		"League Lottery - 1st Choice,League Lottery - 2nd Choice,League Lottery - 3rd Choice," +
		"League Lottery - 4th Choice,League Lottery - 5th Choice,League Lottery - 6th Choice," +
		"League Lottery - 7th Choice,League Lottery: Coordinator,Men's: Team\n" +
		"100,Ada,Park,ada@club.test,1,Monday Men's,--None--,,,,,,,5\n"
	if err := os.WriteFile(registrantsPath, []byte(export), 0o644); err != nil {
		t.Fatalf("writing export: %v", err)
	}

	source := NewFileSource(testLogger(), leaguesPath, registrantsPath)
	leagues, registrants, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(leagues) != 1 || leagues[0].Name != "Monday Men's" {
		t.Errorf("unexpected leagues: %+v", leagues)
	}
	if len(registrants) != 1 || registrants[0].TeamOf[1] != 5 {
		t.Errorf("unexpected registrants: %+v", registrants)
	}

	// A second load must hand back clean state, not the same slices.
	leagues2, _, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if leagues2[0] == leagues[0] {
		t.Error("expected fresh league instances on re-load")
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	source := NewFileSource(testLogger(), "/nonexistent/leagues.csv", "/nonexistent/registrants.csv")
	if _, _, err := source.Load(context.Background()); err == nil {
		t.Error("expected error for missing catalog file")
	}
}
