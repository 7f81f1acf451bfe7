package brackets

import (
	"fmt"
	"math/bits"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "single_elimination"
}

// Generate builds the full elimination tree up front: placeholder matches
// for rounds 2..totalRounds, then round-1 pairings over the seeded slot
// array. A round-1 pair with a single team is a bye; no match node is
// created for it and the team is written straight into its round-2 slot.
func (g *SingleEliminationGenerator) Generate(teamIDs []int) (*Plan, error) {
	n := len(teamIDs)
	if n < 2 {
		return nil, ErrNotEnoughTeams
	}

	size := NextPowerOfTwo(n)
	totalRounds := bits.Len(uint(size)) - 1

	// Map seed numbers onto bracket slots. Seeds beyond n leave their slot
	// empty, which spreads the byes across the draw.
	slots := make([]*int, size)
	for pos, seedNum := range SeedOrder(size) {
		if seedNum <= n {
			id := teamIDs[seedNum-1]
			slots[pos] = &id
		}
	}

	plan := &Plan{TotalRounds: totalRounds, Byes: size - n}
	byIndex := make(map[[2]int]*PlannedMatch)

	for r := 2; r <= totalRounds; r++ {
		for i := 0; i < size>>uint(r); i++ {
			pm := &PlannedMatch{
				Round:       r,
				MatchNumber: i + 1,
				Slot:        i,
			}
			if r < totalRounds {
				pm.NextRound = r + 1
				pm.NextSlot = i / 2
			}
			plan.Matches = append(plan.Matches, pm)
			byIndex[[2]int{r, i}] = pm
		}
	}

	for i := 0; i < size/2; i++ {
		home, away := slots[2*i], slots[2*i+1]
		switch {
		case home != nil && away != nil:
			pm := &PlannedMatch{
				Round:       1,
				MatchNumber: i + 1,
				Slot:        i,
				HomeTeamID:  home,
				AwayTeamID:  away,
			}
			if totalRounds > 1 {
				pm.NextRound = 2
				pm.NextSlot = i / 2
			}
			plan.Matches = append(plan.Matches, pm)
		case home != nil || away != nil:
			// Bye. The lone team advances directly into round 2, taking
			// the home side of the successor when its pair index is even.
			advancing := home
			if advancing == nil {
				advancing = away
			}
			next, ok := byIndex[[2]int{2, i / 2}]
			if !ok {
				return nil, fmt.Errorf("no round-2 slot for bye at pair %d (bracket size %d)", i, size)
			}
			if i%2 == 0 {
				next.HomeTeamID = advancing
			} else {
				next.AwayTeamID = advancing
			}
		default:
			// Two empty slots can only pair up if the seed math is off;
			// skip rather than error, matching the generation contract.
		}
	}

	return plan, nil
}

// RoundName derives the display label for an elimination round from its
// distance to the final.
func RoundName(round, totalRounds int) string {
	teamsInRound := 1 << uint(totalRounds-round+1)
	switch round {
	case totalRounds:
		return "Final"
	case totalRounds - 1:
		return "Semifinal"
	case totalRounds - 2:
		return "Quarterfinal"
	default:
		return fmt.Sprintf("Round of %d", teamsInRound)
	}
}
