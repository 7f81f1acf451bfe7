package services

import (
	"fmt"

	"github.com/pitchside/matchday/brackets"
	"github.com/pitchside/matchday/models"
	"github.com/pitchside/matchday/repositories"
)

// tournamentRoom names the websocket room for a tournament's live updates.
func tournamentRoom(tournamentID int) string {
	return fmt.Sprintf("tournament_%d", tournamentID)
}

// roundLabel picks the display name for a round. Elimination rounds are
// named by distance to the final; league rounds are plain matchdays.
func roundLabel(format models.TournamentFormat, round, totalRounds int) string {
	if format == models.FormatRoundRobin {
		return fmt.Sprintf("Round %d", round)
	}
	return brackets.RoundName(round, totalRounds)
}

// successorSlot derives which side of the successor a match's winner
// occupies. The slot is recomputed from sibling order every time instead of
// being stored: of the two feeders sharing a successor, the lower-numbered
// fills the home side. A lone feeder (its sibling pairing was a bye) falls
// back to its own slot parity, which yields the same ordering.
func successorSlot(match *models.Match, feeders []*models.Match) repositories.MatchSlot {
	if len(feeders) == 2 {
		lower := feeders[0]
		if feeders[1].MatchNumber < lower.MatchNumber {
			lower = feeders[1]
		}
		if lower.ID == match.ID {
			return repositories.SlotHome
		}
		return repositories.SlotAway
	}
	if match.BracketSlot%2 == 1 {
		return repositories.SlotAway
	}
	return repositories.SlotHome
}
