package services

import "errors"

// Shared errors surfaced to callers with stable reason codes via the HTTP
// error mapper.
var (
	// Not found
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNotFound       = errors.New("team not found")

	// Authorization
	ErrNotTournamentOwner = errors.New("only the tournament owner can perform this action")

	// Validation and business rules
	ErrInsufficientTeams   = errors.New("at least 2 active teams are required to generate a bracket")
	ErrScoresRequired      = errors.New("both scores are required to complete a match")
	ErrMatchAlreadyDecided = errors.New("match already has a recorded result")
	ErrMatchMissingTeams   = errors.New("cannot complete a match before both teams are determined")
	ErrIdenticalSwapTeams  = errors.New("cannot swap a team with itself")
	ErrTeamNotInTournament = errors.New("team does not belong to this tournament")
	ErrInvalidMatchStatus  = errors.New("invalid match status provided")

	// Consistency: a mid-sequence write failure left the bracket invalid;
	// the tournament requires explicit regeneration.
	ErrBracketGenerationFailed = errors.New("bracket generation failed, regenerate to recover")
)
