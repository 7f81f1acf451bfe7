package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teamIDs(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = 100 + i
	}
	return ids
}

func matchAt(t *testing.T, plan *Plan, round, slot int) *PlannedMatch {
	t.Helper()
	for _, pm := range plan.Matches {
		if pm.Round == round && pm.Slot == slot {
			return pm
		}
	}
	t.Fatalf("no match at round %d slot %d", round, slot)
	return nil
}

func TestSingleElimination_RejectsSingleTeam(t *testing.T) {
	_, err := NewSingleEliminationGenerator().Generate([]int{100})
	assert.ErrorIs(t, err, ErrNotEnoughTeams)
}

func TestSingleElimination_TwoTeams(t *testing.T) {
	plan, err := NewSingleEliminationGenerator().Generate(teamIDs(2))
	require.NoError(t, err)

	assert.Equal(t, 1, plan.TotalRounds)
	assert.Equal(t, 0, plan.Byes)
	require.Len(t, plan.Matches, 1)

	final := plan.Matches[0]
	assert.Equal(t, 100, *final.HomeTeamID)
	assert.Equal(t, 101, *final.AwayTeamID)
	assert.Zero(t, final.NextRound)
}

// Five entrants in an eight-slot bracket: three byes, a single round-1
// match, and N-1 match nodes in total so the champion takes exactly four
// decisions to produce.
func TestSingleElimination_FiveTeams(t *testing.T) {
	plan, err := NewSingleEliminationGenerator().Generate(teamIDs(5))
	require.NoError(t, err)

	assert.Equal(t, 3, plan.TotalRounds)
	assert.Equal(t, 3, plan.Byes)
	require.Len(t, plan.Matches, 4)

	perRound := make(map[int]int)
	for _, pm := range plan.Matches {
		perRound[pm.Round]++
	}
	assert.Equal(t, map[int]int{1: 1, 2: 2, 3: 1}, perRound)

	// Slot layout [1, 8, 4, 5, 2, 7, 3, 6] over ids 100..104: seeds 1-3
	// draw byes, seeds 4 and 5 contest the only round-1 match.
	r1 := matchAt(t, plan, 1, 1)
	assert.Equal(t, 103, *r1.HomeTeamID)
	assert.Equal(t, 104, *r1.AwayTeamID)
	assert.Equal(t, 2, r1.NextRound)
	assert.Equal(t, 0, r1.NextSlot)

	sf0 := matchAt(t, plan, 2, 0)
	require.NotNil(t, sf0.HomeTeamID)
	assert.Equal(t, 100, *sf0.HomeTeamID)
	assert.Nil(t, sf0.AwayTeamID, "away side waits for the round-1 winner")

	sf1 := matchAt(t, plan, 2, 1)
	require.NotNil(t, sf1.HomeTeamID)
	require.NotNil(t, sf1.AwayTeamID)
	assert.Equal(t, 101, *sf1.HomeTeamID)
	assert.Equal(t, 102, *sf1.AwayTeamID)

	final := matchAt(t, plan, 3, 0)
	assert.Nil(t, final.HomeTeamID)
	assert.Nil(t, final.AwayTeamID)
	assert.Zero(t, final.NextRound)
}

func TestSingleElimination_MatchCounts(t *testing.T) {
	tests := []struct {
		teams       int
		totalRounds int
		byes        int
	}{
		{2, 1, 0},
		{3, 2, 1},
		{4, 2, 0},
		{6, 3, 2},
		{8, 3, 0},
		{9, 4, 7},
		{16, 4, 0},
	}
	for _, tt := range tests {
		plan, err := NewSingleEliminationGenerator().Generate(teamIDs(tt.teams))
		require.NoError(t, err, "teams=%d", tt.teams)

		assert.Equal(t, tt.totalRounds, plan.TotalRounds, "teams=%d", tt.teams)
		assert.Equal(t, tt.byes, plan.Byes, "teams=%d", tt.teams)
		// One decision eliminates one team, byes included.
		assert.Len(t, plan.Matches, tt.teams-1, "teams=%d", tt.teams)
	}
}

// Every non-final match must point at a node that exists one round later,
// and every pair of sibling feeders must share it.
func TestSingleElimination_SuccessorLinks(t *testing.T) {
	for _, n := range []int{4, 5, 8, 11, 16} {
		plan, err := NewSingleEliminationGenerator().Generate(teamIDs(n))
		require.NoError(t, err, "teams=%d", n)

		exists := make(map[[2]int]bool)
		for _, pm := range plan.Matches {
			exists[[2]int{pm.Round, pm.Slot}] = true
		}
		for _, pm := range plan.Matches {
			if pm.Round == plan.TotalRounds {
				assert.Zero(t, pm.NextRound, "final must not advance, teams=%d", n)
				continue
			}
			assert.Equal(t, pm.Round+1, pm.NextRound, "teams=%d round=%d", n, pm.Round)
			assert.Equal(t, pm.Slot/2, pm.NextSlot, "teams=%d slot=%d", n, pm.Slot)
			assert.True(t, exists[[2]int{pm.NextRound, pm.NextSlot}],
				"dangling successor (%d,%d), teams=%d", pm.NextRound, pm.NextSlot, n)
		}
	}
}

// All entrants must appear exactly once across round-1 slots and byes.
func TestSingleElimination_EveryTeamPlaced(t *testing.T) {
	for _, n := range []int{3, 5, 7, 12} {
		plan, err := NewSingleEliminationGenerator().Generate(teamIDs(n))
		require.NoError(t, err, "teams=%d", n)

		placed := make(map[int]int)
		for _, pm := range plan.Matches {
			if pm.Round > 2 {
				continue
			}
			// Round-2 occupants were placed by byes; round-1 occupants by
			// direct pairing.
			if pm.Round == 2 && pm.HomeTeamID != nil {
				placed[*pm.HomeTeamID]++
			}
			if pm.Round == 2 && pm.AwayTeamID != nil {
				placed[*pm.AwayTeamID]++
			}
			if pm.Round == 1 {
				placed[*pm.HomeTeamID]++
				placed[*pm.AwayTeamID]++
			}
		}
		for _, id := range teamIDs(n) {
			assert.Equal(t, 1, placed[id], "team %d placement, teams=%d", id, n)
		}
	}
}

func TestRoundName(t *testing.T) {
	assert.Equal(t, "Final", RoundName(3, 3))
	assert.Equal(t, "Semifinal", RoundName(2, 3))
	assert.Equal(t, "Quarterfinal", RoundName(1, 3))
	assert.Equal(t, "Round of 16", RoundName(1, 4))
	assert.Equal(t, "Round of 32", RoundName(1, 5))
	assert.Equal(t, "Final", RoundName(1, 1))
}
