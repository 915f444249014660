package lottery

import (
	"github.com/rgoodwin/leaguelotto/internal/models"
)

// Entry is one unit of admission for a single league in a single round:
// either a team that must be seated or waitlisted together, or a lone
// registrant. Entries are rebuilt from scratch every round and never
// persisted.
type Entry struct {
	Team    int
	Members []*models.Registrant
}

// EligibleMembers returns the members who can still accept a league
// under their desired count and the global cap. Ineligible members are
// silently excluded from both admission and waitlisting.
func (e *Entry) EligibleMembers(globalCap int) []*models.Registrant {
	var eligible []*models.Registrant
	for _, m := range e.Members {
		if m.EligibleForMore(globalCap) {
			eligible = append(eligible, m)
		}
	}
	return eligible
}

// Size is the number of eligible members, the count that must fit in
// the league's remaining capacity.
func (e *Entry) Size(globalCap int) int {
	return len(e.EligibleMembers(globalCap))
}

// FairnessKey is the mean prior assignment count across eligible
// members, 0 when none are eligible. Entries with lower keys are
// admitted first so under-assigned registrants are preferred when
// capacity is scarce.
func (e *Entry) FairnessKey(globalCap int) float64 {
	eligible := e.EligibleMembers(globalCap)
	if len(eligible) == 0 {
		return 0
	}
	sum := 0
	for _, m := range eligible {
		sum += m.AssignedCount()
	}
	return float64(sum) / float64(len(eligible))
}
