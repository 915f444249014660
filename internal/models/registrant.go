package models

// NoTeam is the sentinel team ID for registrants entering a league on
// their own. Teamless registrants are always evaluated individually.
const NoTeam = -1

// NoLeague is the sentinel league ID meaning "none", used for
// CoordinatorOf when a registrant coordinates nothing.
const NoLeague = -1

// Registrant is a club member entered in the lottery. Identity fields
// are inert; the engine mutates only Prefs, Assignments and
// WaitlistAssignments during a run.
type Registrant struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Desired int    `json:"desired"`

	// Prefs is the ordered preference list, highest priority first.
	// The engine removes entries as leagues are resolved.
	Prefs []int `json:"prefs"`

	// TeamOf maps a league ID to the team the registrant wants to play
	// with in that league. NoTeam means they enter alone.
	TeamOf map[int]int `json:"team_of"`

	// CoordinatorOf is the league this registrant coordinates, or
	// NoLeague. Coordinators are guaranteed a roster spot.
	CoordinatorOf int `json:"coordinator_of"`

	Assignments         []int `json:"assignments"`
	WaitlistAssignments []int `json:"waitlist_assignments"`
}

// NewRegistrant creates a registrant with no preferences and no team.
func NewRegistrant(id, name, email string, desired int) *Registrant {
	return &Registrant{
		ID:            id,
		Name:          name,
		Email:         email,
		Desired:       desired,
		TeamOf:        make(map[int]int),
		CoordinatorOf: NoLeague,
	}
}

// AssignedCount returns the number of leagues granted so far.
func (r *Registrant) AssignedCount() int {
	return len(r.Assignments)
}

// PreferenceRank returns the position of leagueID in the current
// preference list, or -1 when the league is not listed.
func (r *Registrant) PreferenceRank(leagueID int) int {
	for i, id := range r.Prefs {
		if id == leagueID {
			return i
		}
	}
	return -1
}

// TeamFor returns the registrant's team for the league. A missing
// mapping is reported as NoTeam with ok=false so callers can log the
// data-quality issue and continue.
func (r *Registrant) TeamFor(leagueID int) (team int, ok bool) {
	team, ok = r.TeamOf[leagueID]
	if !ok {
		return NoTeam, false
	}
	return team, true
}

// EligibleForMore reports whether the registrant can accept another
// league, bounded by their desired count and the global per-person cap.
func (r *Registrant) EligibleForMore(globalCap int) bool {
	n := r.AssignedCount()
	return n < r.Desired && n < globalCap
}

// RemovePref deletes the first occurrence of leagueID from the
// preference list. Removing an unlisted league is a no-op.
func (r *Registrant) RemovePref(leagueID int) {
	for i, id := range r.Prefs {
		if id == leagueID {
			r.Prefs = append(r.Prefs[:i], r.Prefs[i+1:]...)
			return
		}
	}
}
