package lottery

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/rgoodwin/leaguelotto/internal/errors"
	"github.com/rgoodwin/leaguelotto/internal/logger"
	"github.com/rgoodwin/leaguelotto/internal/models"
)

// DefaultGlobalCap bounds how many leagues any one person can be
// granted across the whole lottery, regardless of what they asked for.
// 25 is effectively unlimited for a club season.
const DefaultGlobalCap = 25

// Engine runs the season lottery: successive preference rounds of
// capacity-aware greedy admission with randomized tie-breaking. It is
// single-threaded and performs no I/O; it owns the registrant and
// league collections outright for the duration of Run.
type Engine struct {
	log       logger.Logger
	rng       *rand.Rand
	globalCap int
}

// NewEngine creates an engine. The caller supplies the random source so
// runs are reproducible under a fixed seed. A globalCap of 0 or less
// falls back to DefaultGlobalCap.
func NewEngine(log logger.Logger, rng *rand.Rand, globalCap int) *Engine {
	if globalCap <= 0 {
		globalCap = DefaultGlobalCap
	}
	return &Engine{log: log, rng: rng, globalCap: globalCap}
}

// Run drives preference rounds until no registrant has a preference
// left at the current round index. Registrant and league state is
// mutated in place; on a capacity error the run aborts immediately and
// the error names the league and round.
func (e *Engine) Run(leagues []*models.League, registrants []*models.Registrant) error {
	round := 0
	for anyPrefsBeyond(registrants, round) {
		// Most oversubscribed league first, so its overflow can be
		// recycled into next-choice leagues later in the same pass.
		for _, league := range e.orderLeagues(leagues, registrants, round) {
			if err := e.runLeagueRound(league, registrants, round); err != nil {
				return errors.Wrap(err, errors.ErrCapacity,
					fmt.Sprintf("lottery aborted in round %d", round))
			}
		}
		round++
		e.log.Info("round complete", "round", round)
	}
	return nil
}

// anyPrefsBeyond reports whether any registrant still has a preference
// at index round, the loop's termination condition.
func anyPrefsBeyond(registrants []*models.Registrant, round int) bool {
	for _, r := range registrants {
		if len(r.Prefs) > round {
			return true
		}
	}
	return false
}

// orderLeagues sorts leagues ascending by capacity minus this round's
// demand, i.e. the most contested league first.
func (e *Engine) orderLeagues(leagues []*models.League, registrants []*models.Registrant, round int) []*models.League {
	demand := make(map[int]int, len(leagues))
	for _, r := range registrants {
		if len(r.Prefs) > round {
			demand[r.Prefs[round]]++
		}
	}
	ordered := slices.Clone(leagues)
	slices.SortStableFunc(ordered, func(a, b *models.League) int {
		return (a.Capacity - demand[a.ID]) - (b.Capacity - demand[b.ID])
	})
	return ordered
}

// runLeagueRound resolves one league for one round: coordinator
// carve-out, team grouping, fairness-ordered greedy admission, then
// waitlist spillover and the round-0 second-chance recycling.
func (e *Engine) runLeagueRound(league *models.League, registrants []*models.Registrant, round int) error {
	candidates := e.candidatesFor(league, registrants, round)
	if len(candidates) == 0 {
		return nil
	}

	grouped := make([]*models.Registrant, 0, len(candidates))
	for _, c := range candidates {
		if c.CoordinatorOf == league.ID {
			if err := league.PromoteCoordinator(c); err != nil {
				return err
			}
			e.log.Debug("coordinator seated", "league", league.Name, "registrant", c.ID)
			continue
		}
		grouped = append(grouped, c)
	}

	entries := e.groupIntoEntries(league, grouped)

	// Shuffle breaks ties between equally-prioritized entries; the
	// stable sort then prefers entries with fewer prior assignments.
	e.rng.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})
	slices.SortStableFunc(entries, func(a, b *Entry) int {
		ka, kb := a.FairnessKey(e.globalCap), b.FairnessKey(e.globalCap)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})

	remaining := league.SpotsRemaining()
	var toAdmit, toWaitlist []*models.Registrant
	full := false
	for _, ent := range entries {
		eligible := ent.EligibleMembers(e.globalCap)
		if !full && remaining-len(toAdmit) >= len(eligible) {
			toAdmit = append(toAdmit, eligible...)
			continue
		}
		// One forward pass only: once an entry fails to fit, every
		// later entry is waitlisted even if it would squeeze in.
		full = true
		toWaitlist = append(toWaitlist, eligible...)
	}

	if err := league.Admit(toAdmit); err != nil {
		return err
	}
	e.log.Debug("admissions committed",
		"league", league.Name, "round", round,
		"admitted", len(toAdmit), "waitlisted", len(toWaitlist))

	if len(toWaitlist) == 0 {
		return nil
	}
	league.AddToWaitlist(toWaitlist)
	e.spillover(league, registrants, round, toWaitlist)
	return nil
}

// candidatesFor snapshots the registrants whose preference at this
// round's index names the league.
func (e *Engine) candidatesFor(league *models.League, registrants []*models.Registrant, round int) []*models.Registrant {
	var candidates []*models.Registrant
	for _, r := range registrants {
		if len(r.Prefs) > round && r.Prefs[round] == league.ID {
			candidates = append(candidates, r)
		}
	}
	return candidates
}

// groupIntoEntries buckets candidates by team, one entry per team and
// one singleton entry per teamless candidate. Entries come out in
// first-seen order so a seeded run is reproducible.
func (e *Engine) groupIntoEntries(league *models.League, candidates []*models.Registrant) []*Entry {
	var entries []*Entry
	byTeam := make(map[int]*Entry)
	for _, c := range candidates {
		team, ok := c.TeamFor(league.ID)
		if !ok {
			e.log.Warn("registrant missing team entry for league, treating as individual",
				"registrant", c.ID, "league", league.Name)
		}
		if team == models.NoTeam {
			entries = append(entries, &Entry{Team: models.NoTeam, Members: []*models.Registrant{c}})
			continue
		}
		ent, seen := byTeam[team]
		if !seen {
			ent = &Entry{Team: team}
			byTeam[team] = ent
			entries = append(entries, ent)
		}
		ent.Members = append(ent.Members, c)
	}
	return entries
}

// spillover runs when the league filled this round. Everyone who listed
// the league as a lower choice is waitlisted now and the league is
// pruned from their preferences; they can never be offered it again.
// In round 0 only, this round's waitlisted entrants join the pruning so
// their next choice shifts into the round-0 slot and gets one more look
// from leagues processed later in the same pass (second-chance
// recycling).
func (e *Engine) spillover(league *models.League, registrants []*models.Registrant, round int, waitlisted []*models.Registrant) {
	var spill []*models.Registrant
	for _, r := range registrants {
		if r.PreferenceRank(league.ID) > round && r.EligibleForMore(e.globalCap) {
			spill = append(spill, r)
		}
	}
	e.rng.Shuffle(len(spill), func(i, j int) {
		spill[i], spill[j] = spill[j], spill[i]
	})
	slices.SortStableFunc(spill, func(a, b *models.Registrant) int {
		return a.PreferenceRank(league.ID) - b.PreferenceRank(league.ID)
	})

	league.AddToWaitlist(spill)

	toPrune := spill
	if round == 0 {
		toPrune = append(toPrune, waitlisted...)
	}
	for _, r := range toPrune {
		r.RemovePref(league.ID)
	}
}
