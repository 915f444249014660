package services

import (
	"context"
	"fmt"
	"os"

	"github.com/rgoodwin/leaguelotto/internal/ingest"
	"github.com/rgoodwin/leaguelotto/internal/logger"
	"github.com/rgoodwin/leaguelotto/internal/models"
)

// FileSource loads lottery inputs from CSV files on disk. Load
// re-reads the files on every call so each run starts from clean
// state.
type FileSource struct {
	loader          *ingest.Loader
	leaguesPath     string
	registrantsPath string
}

// NewFileSource creates a FileSource for the given catalog and export paths
func NewFileSource(log logger.Logger, leaguesPath, registrantsPath string) *FileSource {
	return &FileSource{
		loader:          ingest.NewLoader(log, ingest.DefaultMapping()),
		leaguesPath:     leaguesPath,
		registrantsPath: registrantsPath,
	}
}

// Load parses both CSV files and returns fresh leagues and registrants
func (s *FileSource) Load(ctx context.Context) ([]*models.League, []*models.Registrant, error) {
	lf, err := os.Open(s.leaguesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening league catalog: %w", err)
	}
	defer lf.Close()

	leagues, specs, err := s.loader.LoadLeagues(lf)
	if err != nil {
		return nil, nil, err
	}

	rf, err := os.Open(s.registrantsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening registrant export: %w", err)
	}
	defer rf.Close()

	registrants, err := s.loader.LoadRegistrants(rf, specs)
	if err != nil {
		return nil, nil, err
	}

	return leagues, registrants, nil
}
