package brackets

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "round_robin"
}

// Generate schedules a single round robin with the circle method. For an
// odd team count a nil placeholder pads the circle; its opponent each
// round simply rests, with no match created and no effect on standings.
// Index 0 stays fixed while the rest rotate, so every pair meets exactly
// once across len-1 rounds.
func (g *RoundRobinGenerator) Generate(teamIDs []int) (*Plan, error) {
	if len(teamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}

	circle := make([]*int, 0, len(teamIDs)+1)
	for i := range teamIDs {
		circle = append(circle, &teamIDs[i])
	}
	if len(circle)%2 != 0 {
		circle = append(circle, nil)
	}
	m := len(circle)

	plan := &Plan{TotalRounds: m - 1}
	for r := 1; r < m; r++ {
		number := 0
		for i := 0; i < m/2; i++ {
			home, away := circle[i], circle[m-1-i]
			if home == nil || away == nil {
				continue
			}
			number++
			plan.Matches = append(plan.Matches, &PlannedMatch{
				Round:       r,
				MatchNumber: number,
				Slot:        number - 1,
				HomeTeamID:  home,
				AwayTeamID:  away,
			})
		}

		// Rotate: the last element moves to index 1, everything between
		// shifts one step right.
		last := circle[m-1]
		copy(circle[2:], circle[1:m-1])
		circle[1] = last
	}

	return plan, nil
}
