package brackets

import "errors"

var ErrNotEnoughTeams = errors.New("at least 2 teams are required to generate a bracket")

// PlannedMatch is one node of a generated match plan, prior to persistence.
// Slot is the 0-based position within the round; NextRound/NextSlot address
// the successor node the winner feeds into (NextRound 0 means none).
type PlannedMatch struct {
	Round       int
	MatchNumber int
	Slot        int
	HomeTeamID  *int
	AwayTeamID  *int
	NextRound   int
	NextSlot    int
}

// Plan is the full match graph produced by a generator for one tournament.
type Plan struct {
	TotalRounds int
	Byes        int
	Matches     []*PlannedMatch
}

// Generator builds a complete match plan from an ordered team list. The
// order carries the seeding: teamIDs[0] is seed 1, teamIDs[1] seed 2, etc.
type Generator interface {
	Generate(teamIDs []int) (*Plan, error)
	Name() string
}
