package models

import "github.com/rgoodwin/leaguelotto/internal/errors"

// coordinatorPlaceholder reserves one roster spot per league so a
// coordinator can always be seated without exceeding nominal capacity.
// Leagues that never see a coordinator keep the placeholder for the
// whole run, matching the club's practice of holding the spot open.
var coordinatorPlaceholder = &Registrant{
	ID:            "coordinator",
	Name:          "Coordinator",
	Email:         "Coordinator",
	Desired:       7,
	CoordinatorOf: NoLeague,
}

// League is a named capacity pool with a roster and a waitlist.
type League struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`

	Roster   []*Registrant `json:"roster"`
	Waitlist []*Registrant `json:"waitlist"`
}

// NewLeague creates a league with the coordinator placeholder already
// seated.
func NewLeague(id int, name string, capacity int) *League {
	return &League{
		ID:       id,
		Name:     name,
		Capacity: capacity,
		Roster:   []*Registrant{coordinatorPlaceholder},
	}
}

// SpotsRemaining returns the number of open roster spots.
func (l *League) SpotsRemaining() int {
	return l.Capacity - len(l.Roster)
}

// Admit seats every registrant in regs and records the league in each
// registrant's assignments. The caller must have verified capacity; an
// overflow here is an accounting defect and returns a fatal
// capacity-kind error without admitting anyone.
func (l *League) Admit(regs []*Registrant) error {
	if len(regs) > l.SpotsRemaining() {
		return errors.Capacityf("league %d (%s): cannot admit %d registrants with %d spots remaining",
			l.ID, l.Name, len(regs), l.SpotsRemaining())
	}
	l.Roster = append(l.Roster, regs...)
	for _, r := range regs {
		r.Assignments = append(r.Assignments, l.ID)
	}
	return nil
}

// AddToWaitlist appends regs to the waitlist and records the league in
// each registrant's waitlist assignments. There is no capacity limit.
func (l *League) AddToWaitlist(regs []*Registrant) {
	l.Waitlist = append(l.Waitlist, regs...)
	for _, r := range regs {
		r.WaitlistAssignments = append(r.WaitlistAssignments, l.ID)
	}
}

// PromoteCoordinator removes the reserved placeholder and seats the
// real coordinator, leaving net capacity unchanged. If the placeholder
// was already consumed the coordinator is admitted through the normal
// capacity check.
func (l *League) PromoteCoordinator(coordinator *Registrant) error {
	for i, r := range l.Roster {
		if r == coordinatorPlaceholder {
			l.Roster = append(l.Roster[:i], l.Roster[i+1:]...)
			break
		}
	}
	return l.Admit([]*Registrant{coordinator})
}

// IsCoordinatorPlaceholder reports whether r is the reserved
// coordinator slot rather than a real registrant.
func IsCoordinatorPlaceholder(r *Registrant) bool {
	return r == coordinatorPlaceholder
}
