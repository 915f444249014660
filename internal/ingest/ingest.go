// Package ingest loads the league catalog and registrant exports from
// CSV. It is a pure adapter: all lottery decisions live in the engine,
// ingest only maps columns to the data model and absorbs the quirks of
// the club's registration export.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rgoodwin/leaguelotto/internal/errors"
	"github.com/rgoodwin/leaguelotto/internal/logger"
	"github.com/rgoodwin/leaguelotto/internal/models"
)

// Markers used by the registration export.
const (
	noChoiceMarker   = "--None--"
	noLotteryMarker  = "--No Lottery Leagues--"
	eofSentinelValue = "EOF"
)

// LeagueSpec describes one catalog row: the league itself plus the name
// of the registrant-CSV column that carries its team numbers.
type LeagueSpec struct {
	ID         int
	Name       string
	Capacity   int
	TeamColumn string
}

// ColumnMapping names the registrant-CSV columns to read. The defaults
// match the club's registration export.
type ColumnMapping struct {
	MemberID     string
	FirstName    string
	LastName     string
	Email        string
	DesiredCount string
	Coordinator  string
	Choices      []string
}

// DefaultMapping returns the column names of the standard registration
// export, with seven ranked choice columns.
func DefaultMapping() ColumnMapping {
	return ColumnMapping{
		MemberID:     "Member ID",
		FirstName:    "First Name",
		LastName:     "Last Name",
		Email:        "Email",
		DesiredCount: "League Lottery - Max # of Leagues Desired",
		Coordinator:  "League Lottery: Coordinator",
		Choices: []string{
			"League Lottery - 1st Choice",
			"League Lottery - 2nd Choice",
			"League Lottery - 3rd Choice",
			"League Lottery - 4th Choice",
			"League Lottery - 5th Choice",
			"League Lottery - 6th Choice",
			"League Lottery - 7th Choice",
		},
	}
}

// Loader parses the two input files.
type Loader struct {
	log     logger.Logger
	mapping ColumnMapping
}

// NewLoader creates a Loader with the given column mapping.
func NewLoader(log logger.Logger, mapping ColumnMapping) *Loader {
	return &Loader{log: log, mapping: mapping}
}

// LoadLeagues reads the league catalog CSV (header:
// id,name,capacity,team_column) and returns leagues seeded with the
// reserved coordinator spot, plus the raw specs for registrant parsing.
func (ld *Loader) LoadLeagues(r io.Reader) ([]*models.League, []LeagueSpec, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrValidation, "league catalog: missing header")
	}
	col, err := headerIndex(header, []string{"id", "name", "capacity", "team_column"})
	if err != nil {
		return nil, nil, err
	}

	var leagues []*models.League
	var specs []LeagueSpec
	seen := make(map[int]bool)
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrValidation,
				fmt.Sprintf("league catalog: line %d", line+1))
		}
		line++

		id, err := strconv.Atoi(strings.TrimSpace(record[col["id"]]))
		if err != nil {
			return nil, nil, errors.Validationf("league catalog line %d: bad id %q", line, record[col["id"]])
		}
		if seen[id] {
			return nil, nil, errors.Validationf("league catalog line %d: duplicate id %d", line, id)
		}
		seen[id] = true

		capacity, err := strconv.Atoi(strings.TrimSpace(record[col["capacity"]]))
		if err != nil || capacity < 0 {
			return nil, nil, errors.Validationf("league catalog line %d: bad capacity %q", line, record[col["capacity"]])
		}

		name := strings.TrimSpace(record[col["name"]])
		leagues = append(leagues, models.NewLeague(id, name, capacity))
		specs = append(specs, LeagueSpec{
			ID:         id,
			Name:       name,
			Capacity:   capacity,
			TeamColumn: strings.TrimSpace(record[col["team_column"]]),
		})
	}
	if len(leagues) == 0 {
		return nil, nil, errors.Validation("league catalog: no leagues")
	}
	return leagues, specs, nil
}

// LoadRegistrants reads the registration export and returns the
// registrants entered in the lottery. Rows after the EOF sentinel are
// ignored, as are members who opted out of the lottery. Data-quality
// problems in individual cells are logged and defaulted, never fatal.
func (ld *Loader) LoadRegistrants(r io.Reader, specs []LeagueSpec) ([]*models.Registrant, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation, "registrant file: missing header")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	required := []string{
		ld.mapping.MemberID, ld.mapping.FirstName, ld.mapping.LastName,
		ld.mapping.Email, ld.mapping.DesiredCount,
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, errors.Validationf("registrant file: missing column %q", name)
		}
	}

	byName := make(map[string]LeagueSpec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}

	cell := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var registrants []*models.Registrant
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrValidation,
				fmt.Sprintf("registrant file: line %d", line+1))
		}
		line++

		if cell(record, ld.mapping.FirstName) == eofSentinelValue {
			break
		}
		desiredRaw := cell(record, ld.mapping.DesiredCount)
		if desiredRaw == "" || desiredRaw == noLotteryMarker {
			continue
		}

		name := strings.TrimSpace(cell(record, ld.mapping.FirstName) + " " + cell(record, ld.mapping.LastName))
		reg := models.NewRegistrant(
			cell(record, ld.mapping.MemberID),
			name,
			cell(record, ld.mapping.Email),
			mkInt(desiredRaw),
		)

		coordinatorChoice := cell(record, ld.mapping.Coordinator)
		for _, choiceCol := range ld.mapping.Choices {
			choice := cell(record, choiceCol)
			if choice == "" || choice == noChoiceMarker {
				continue
			}
			spec, ok := byName[choice]
			if !ok {
				ld.log.Warn("unknown league in choice column, skipping",
					"line", line, "registrant", reg.ID, "choice", choice)
				continue
			}
			if reg.PreferenceRank(spec.ID) != -1 {
				ld.log.Warn("duplicate league choice, skipping",
					"line", line, "registrant", reg.ID, "choice", choice)
				continue
			}
			reg.Prefs = append(reg.Prefs, spec.ID)
			reg.TeamOf[spec.ID] = mkInt(cell(record, spec.TeamColumn))
			if coordinatorChoice == choice {
				reg.CoordinatorOf = spec.ID
			}
		}

		registrants = append(registrants, reg)
	}

	ld.log.Info("registrants loaded", "count", len(registrants))
	return registrants, nil
}

// mkInt parses a trimmed integer cell, returning -1 for blanks so an
// empty team column maps to NoTeam.
func mkInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return -1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// headerIndex maps required header names to their positions.
func headerIndex(header []string, required []string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, errors.Validationf("league catalog: missing column %q", name)
		}
	}
	return col, nil
}
