// Package report renders completed lottery runs: the text summaries
// the coordinators read aloud and the JSON document downstream tooling
// consumes. It never mutates engine state.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rgoodwin/leaguelotto/internal/models"
)

// Member is the registrant identity subset that appears in rosters.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LeagueResult is one league's final state.
type LeagueResult struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Capacity       int      `json:"capacity"`
	SpotsRemaining int      `json:"spots_remaining"`
	Roster         []Member `json:"roster"`
	Waitlist       []Member `json:"waitlist"`
}

// PlayerResult is one registrant's final state.
type PlayerResult struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Desired             int    `json:"desired"`
	Assignments         []int  `json:"assignments"`
	WaitlistAssignments []int  `json:"waitlist_assignments"`
}

// Document is the full JSON results document for one run.
type Document struct {
	RunID     string         `json:"run_id"`
	Seed      int64          `json:"seed"`
	CreatedAt time.Time      `json:"created_at"`
	Leagues   []LeagueResult `json:"leagues"`
	Players   []PlayerResult `json:"players"`
}

// BuildDocument snapshots leagues and registrants into a Document.
func BuildDocument(runID string, seed int64, createdAt time.Time, leagues []*models.League, registrants []*models.Registrant) Document {
	doc := Document{RunID: runID, Seed: seed, CreatedAt: createdAt}
	for _, l := range leagues {
		doc.Leagues = append(doc.Leagues, LeagueResult{
			ID:             l.ID,
			Name:           l.Name,
			Capacity:       l.Capacity,
			SpotsRemaining: l.SpotsRemaining(),
			Roster:         members(l.Roster),
			Waitlist:       members(l.Waitlist),
		})
	}
	for _, r := range registrants {
		doc.Players = append(doc.Players, PlayerResult{
			ID:                  r.ID,
			Name:                r.Name,
			Email:               r.Email,
			Desired:             r.Desired,
			Assignments:         append([]int(nil), r.Assignments...),
			WaitlistAssignments: append([]int(nil), r.WaitlistAssignments...),
		})
	}
	return doc
}

func members(regs []*models.Registrant) []Member {
	out := make([]Member, 0, len(regs))
	for _, r := range regs {
		out = append(out, Member{ID: r.ID, Name: r.Name, Email: r.Email})
	}
	return out
}

// WriteJSON writes the document as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteLeagueReport writes the roster and waitlist of every league by
// member name.
func WriteLeagueReport(w io.Writer, leagues []*models.League) {
	writeLeagues(w, leagues, func(r *models.Registrant) string { return r.Name })
}

// WriteLeagueEmailReport writes the same layout with email addresses,
// for mail-merging acceptance notices.
func WriteLeagueEmailReport(w io.Writer, leagues []*models.League) {
	writeLeagues(w, leagues, func(r *models.Registrant) string { return r.Email })
}

func writeLeagues(w io.Writer, leagues []*models.League, field func(*models.Registrant) string) {
	for _, l := range leagues {
		fmt.Fprintf(w, "%s\n", l.Name)
		fmt.Fprintf(w, "Available Spots: %d\n", l.SpotsRemaining())
		fmt.Fprintln(w, "Roster:")
		for _, r := range l.Roster {
			fmt.Fprintf(w, "  %s\n", field(r))
		}
		fmt.Fprintln(w, "Waitlist:")
		for _, r := range l.Waitlist {
			fmt.Fprintf(w, "  %s\n", field(r))
		}
		fmt.Fprintln(w)
	}
}

// WriteDocumentReport renders a stored document as the coordinator
// text report: every league's roster and waitlist, then each player's
// assignments.
func WriteDocumentReport(w io.Writer, doc Document) {
	for _, l := range doc.Leagues {
		fmt.Fprintf(w, "%s\n", l.Name)
		fmt.Fprintf(w, "Available Spots: %d\n", l.SpotsRemaining)
		fmt.Fprintln(w, "Roster:")
		for _, m := range l.Roster {
			fmt.Fprintf(w, "  %s <%s>\n", m.Name, m.Email)
		}
		fmt.Fprintln(w, "Waitlist:")
		for _, m := range l.Waitlist {
			fmt.Fprintf(w, "  %s <%s>\n", m.Name, m.Email)
		}
		fmt.Fprintln(w)
	}
	for _, p := range doc.Players {
		fmt.Fprintf(w, "%s <%s>\n", p.Name, p.Email)
		fmt.Fprintf(w, "  desired: %d\n", p.Desired)
		fmt.Fprintf(w, "  assignments: %v\n", p.Assignments)
		fmt.Fprintf(w, "  waitlists: %v\n", p.WaitlistAssignments)
	}
}

// WritePlayerReport dumps every registrant's final state, used when
// auditing a run by hand.
func WritePlayerReport(w io.Writer, registrants []*models.Registrant) {
	for _, r := range registrants {
		fmt.Fprintf(w, "%s <%s>\n", r.Name, r.Email)
		fmt.Fprintf(w, "  desired: %d\n", r.Desired)
		fmt.Fprintf(w, "  remaining prefs: %v\n", r.Prefs)
		fmt.Fprintf(w, "  assignments: %v\n", r.Assignments)
		fmt.Fprintf(w, "  waitlists: %v\n", r.WaitlistAssignments)
	}
}
