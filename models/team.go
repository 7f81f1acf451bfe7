package models

import "time"

type TeamStatus string

const (
	TeamStatusActive       TeamStatus = "active"
	TeamStatusEliminated   TeamStatus = "eliminated"
	TeamStatusWithdrawn    TeamStatus = "withdrawn"
	TeamStatusDisqualified TeamStatus = "disqualified"
)

// FormLength bounds the sliding trail of recent outcomes kept per team.
const FormLength = 5

// TeamStats holds the cumulative standings figures for a team within its
// tournament. Points and GoalDifference are kept consistent with the
// counting fields by the result service; Form holds the last FormLength
// outcome symbols ("W", "D", "L"), most recent last.
type TeamStats struct {
	Played         int      `json:"played" db:"played"`
	Wins           int      `json:"wins" db:"wins"`
	Draws          int      `json:"draws" db:"draws"`
	Losses         int      `json:"losses" db:"losses"`
	GoalsFor       int      `json:"goals_for" db:"goals_for"`
	GoalsAgainst   int      `json:"goals_against" db:"goals_against"`
	GoalDifference int      `json:"goal_difference" db:"goal_difference"`
	Points         int      `json:"points" db:"points"`
	Form           []string `json:"form" db:"form"`
}

type Team struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	Name         string     `json:"name" db:"name"`
	Seed         int        `json:"seed" db:"seed"`
	Status       TeamStatus `json:"status" db:"status"`
	Stats        TeamStats  `json:"stats"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`

	// CaptainEmail is kept for notification dispatch only; team membership
	// lives with the registration collaborator.
	CaptainEmail *string `json:"-" db:"captain_email"`
}
