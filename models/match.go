package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusPostponed MatchStatus = "postponed"
	MatchStatusCancelled MatchStatus = "cancelled"
	MatchStatusWalkover  MatchStatus = "walkover"
)

// Match is one node of a tournament's match graph. Elimination matches keep
// a NextMatchID link to their successor and a (BracketRound, BracketSlot)
// position; both are retained after completion because advancement and team
// swaps recompute successor slots from them.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Round        int         `json:"round" db:"round"`
	RoundName    string      `json:"round_name" db:"round_name"`
	MatchNumber  int         `json:"match_number" db:"match_number"`
	HomeTeamID   *int        `json:"home_team_id" db:"home_team_id"`
	AwayTeamID   *int        `json:"away_team_id" db:"away_team_id"`
	HomeScore    *int        `json:"home_score,omitempty" db:"home_score"`
	AwayScore    *int        `json:"away_score,omitempty" db:"away_score"`
	HomePenalty  *int        `json:"home_penalty,omitempty" db:"home_penalty"`
	AwayPenalty  *int        `json:"away_penalty,omitempty" db:"away_penalty"`
	WinnerTeamID *int        `json:"winner_team_id,omitempty" db:"winner_team_id"`
	Status       MatchStatus `json:"status" db:"status"`
	NextMatchID  *int        `json:"next_match_id,omitempty" db:"next_match_id"`
	BracketRound int         `json:"bracket_round" db:"bracket_round"`
	BracketSlot  int         `json:"bracket_slot" db:"bracket_slot"`
	ScheduledAt  *time.Time  `json:"scheduled_at,omitempty" db:"scheduled_at"`
	StartedAt    *time.Time  `json:"started_at,omitempty" db:"started_at"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
	Notes        *string     `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	// Optional linked entities, populated by services for responses.
	HomeTeam *Team `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team `json:"away_team,omitempty" db:"-"`
}

// HasBothTeams reports whether both slots of the match are determined.
func (m *Match) HasBothTeams() bool {
	return m.HomeTeamID != nil && m.AwayTeamID != nil
}

// SoleTeamID returns the only occupied slot's team, or nil when the match
// has zero or two teams.
func (m *Match) SoleTeamID() *int {
	if m.HomeTeamID != nil && m.AwayTeamID == nil {
		return m.HomeTeamID
	}
	if m.AwayTeamID != nil && m.HomeTeamID == nil {
		return m.AwayTeamID
	}
	return nil
}
