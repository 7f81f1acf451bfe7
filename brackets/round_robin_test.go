package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobin_RejectsSingleTeam(t *testing.T) {
	_, err := NewRoundRobinGenerator().Generate([]int{100})
	assert.ErrorIs(t, err, ErrNotEnoughTeams)
}

func TestRoundRobin_EveryPairMeetsOnce(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 6, 7, 10} {
		plan, err := NewRoundRobinGenerator().Generate(teamIDs(n))
		require.NoError(t, err, "teams=%d", n)

		pairings := make(map[string]int)
		for _, pm := range plan.Matches {
			require.NotNil(t, pm.HomeTeamID)
			require.NotNil(t, pm.AwayTeamID)
			a, b := *pm.HomeTeamID, *pm.AwayTeamID
			if a > b {
				a, b = b, a
			}
			pairings[fmt.Sprintf("%d-%d", a, b)]++
		}

		assert.Len(t, plan.Matches, n*(n-1)/2, "teams=%d", n)
		for key, count := range pairings {
			assert.Equal(t, 1, count, "pair %s, teams=%d", key, n)
		}
	}
}

func TestRoundRobin_RoundStructure(t *testing.T) {
	tests := []struct {
		teams           int
		rounds          int
		matchesPerRound int
	}{
		{2, 1, 1},
		{4, 3, 2},
		{6, 5, 3},
		{8, 7, 4},
	}
	for _, tt := range tests {
		plan, err := NewRoundRobinGenerator().Generate(teamIDs(tt.teams))
		require.NoError(t, err, "teams=%d", tt.teams)
		assert.Equal(t, tt.rounds, plan.TotalRounds, "teams=%d", tt.teams)

		perRound := make(map[int]int)
		for _, pm := range plan.Matches {
			perRound[pm.Round]++
			assert.Zero(t, pm.NextRound, "league matches have no successor")
		}
		for r := 1; r <= tt.rounds; r++ {
			assert.Equal(t, tt.matchesPerRound, perRound[r], "teams=%d round=%d", tt.teams, r)
		}
	}
}

// An odd entry count pads the circle with a rest slot: one team sits out
// each round, every team exactly once over the schedule.
func TestRoundRobin_OddTeamsRest(t *testing.T) {
	ids := teamIDs(5)
	plan, err := NewRoundRobinGenerator().Generate(ids)
	require.NoError(t, err)

	assert.Equal(t, 5, plan.TotalRounds)
	assert.Len(t, plan.Matches, 10)

	playing := make(map[int]map[int]bool)
	for _, pm := range plan.Matches {
		if playing[pm.Round] == nil {
			playing[pm.Round] = make(map[int]bool)
		}
		playing[pm.Round][*pm.HomeTeamID] = true
		playing[pm.Round][*pm.AwayTeamID] = true
	}

	rested := make(map[int]int)
	for round, active := range playing {
		assert.Len(t, active, 4, "round %d", round)
		for _, id := range ids {
			if !active[id] {
				rested[id]++
			}
		}
	}
	for _, id := range ids {
		assert.Equal(t, 1, rested[id], "team %d must rest exactly once", id)
	}
}

func TestRoundRobin_NoTeamPlaysItself(t *testing.T) {
	plan, err := NewRoundRobinGenerator().Generate(teamIDs(9))
	require.NoError(t, err)
	for _, pm := range plan.Matches {
		assert.NotEqual(t, *pm.HomeTeamID, *pm.AwayTeamID)
	}
}
