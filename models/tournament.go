package models

import "time"

// TournamentFormat matches the ENUM in the DB.
type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"

	// Declared formats without a generator yet. Generation falls back to
	// single elimination for these.
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatSwiss             TournamentFormat = "swiss"
)

// SeedingMode controls how teams are assigned to seed numbers before
// placement into the bracket.
type SeedingMode string

const (
	// SeedingRandom draws seed numbers by lot.
	SeedingRandom SeedingMode = "random"
	// SeedingRanked assigns seed numbers from the teams' stored seed values.
	SeedingRanked SeedingMode = "ranked"
)

// BracketStatus tracks the lifecycle of a tournament's generated bracket.
// A failed generation leaves the match set invalid until regenerated.
type BracketStatus string

const (
	BracketNone       BracketStatus = "none"
	BracketGenerating BracketStatus = "generating"
	BracketReady      BracketStatus = "ready"
	BracketFailed     BracketStatus = "failed"
)

type Tournament struct {
	ID            int              `json:"id" db:"id"`
	Name          string           `json:"name" db:"name"`
	OwnerID       int              `json:"owner_id" db:"owner_id"`
	Format        TournamentFormat `json:"format" db:"format"`
	Seeding       SeedingMode      `json:"seeding" db:"seeding"`
	BracketStatus BracketStatus    `json:"bracket_status" db:"bracket_status"`
	MaxTeams      int              `json:"max_teams" db:"max_teams"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}
