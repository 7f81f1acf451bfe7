package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/pitchside/matchday/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchTeamInvalid       = errors.New("match team conflict or invalid")
)

// MatchSlot addresses one side of a match.
type MatchSlot int

const (
	SlotHome MatchSlot = 1
	SlotAway MatchSlot = 2
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error)
	ListByNextMatch(ctx context.Context, exec SQLExecutor, nextMatchID int) ([]*models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	SetTeamSlot(ctx context.Context, exec SQLExecutor, id int, slot MatchSlot, teamID int) error
	SwapTeamSlots(ctx context.Context, exec SQLExecutor, tournamentID, teamAID, teamBID int) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, tournament_id, round, round_name, match_number,
	home_team_id, away_team_id, home_score, away_score, home_penalty, away_penalty,
	winner_team_id, status, next_match_id, bracket_round, bracket_slot,
	scheduled_at, started_at, completed_at, notes, created_at`

func scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Round,
		&m.RoundName,
		&m.MatchNumber,
		&m.HomeTeamID,
		&m.AwayTeamID,
		&m.HomeScore,
		&m.AwayScore,
		&m.HomePenalty,
		&m.AwayPenalty,
		&m.WinnerTeamID,
		&m.Status,
		&m.NextMatchID,
		&m.BracketRound,
		&m.BracketSlot,
		&m.ScheduledAt,
		&m.StartedAt,
		&m.CompletedAt,
		&m.Notes,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, round, round_name, match_number,
			 home_team_id, away_team_id, status, next_match_id,
			 bracket_round, bracket_slot, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.TournamentID,
		match.Round,
		match.RoundName,
		match.MatchNumber,
		match.HomeTeamID,
		match.AwayTeamID,
		match.Status,
		match.NextMatchID,
		match.BracketRound,
		match.BracketSlot,
		match.ScheduledAt,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) listWhere(ctx context.Context, exec SQLExecutor, where string, args ...interface{}) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE ` + where +
		` ORDER BY round ASC, match_number ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error) {
	return r.listWhere(ctx, exec, `tournament_id = $1`, tournamentID)
}

func (r *postgresMatchRepository) ListByNextMatch(ctx context.Context, exec SQLExecutor, nextMatchID int) ([]*models.Match, error) {
	return r.listWhere(ctx, exec, `next_match_id = $1`, nextMatchID)
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches SET
			home_score = $1, away_score = $2, home_penalty = $3, away_penalty = $4,
			winner_team_id = $5, status = $6,
			scheduled_at = $7, started_at = $8, completed_at = $9, notes = $10
		WHERE id = $11`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		match.HomeScore,
		match.AwayScore,
		match.HomePenalty,
		match.AwayPenalty,
		match.WinnerTeamID,
		match.Status,
		match.ScheduledAt,
		match.StartedAt,
		match.CompletedAt,
		match.Notes,
		match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// SetTeamSlot writes a team into one side of a match with a single UPDATE,
// so advancement into a shared successor is atomic per slot and idempotent
// for the same winner.
func (r *postgresMatchRepository) SetTeamSlot(ctx context.Context, exec SQLExecutor, id int, slot MatchSlot, teamID int) error {
	column := "home_team_id"
	if slot == SlotAway {
		column = "away_team_id"
	}
	query := `UPDATE matches SET ` + column + ` = $1 WHERE id = $2`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, teamID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// SwapTeamSlots exchanges every home/away reference to the two teams across
// the tournament's match set in one statement; no intermediate state with a
// sentinel placeholder is ever visible.
func (r *postgresMatchRepository) SwapTeamSlots(ctx context.Context, exec SQLExecutor, tournamentID, teamAID, teamBID int) error {
	query := `
		UPDATE matches SET
			home_team_id = CASE home_team_id WHEN $2 THEN $3 WHEN $3 THEN $2 ELSE home_team_id END,
			away_team_id = CASE away_team_id WHEN $2 THEN $3 WHEN $3 THEN $2 ELSE away_team_id END,
			winner_team_id = CASE winner_team_id WHEN $2 THEN $3 WHEN $3 THEN $2 ELSE winner_team_id END
		WHERE tournament_id = $1
		  AND (home_team_id IN ($2, $3) OR away_team_id IN ($2, $3) OR winner_team_id IN ($2, $3))`

	_, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID, teamAID, teamBID)
	return err
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	query := `DELETE FROM matches WHERE tournament_id = $1`
	_, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID)
	return err
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_home_team_id_fkey", "matches_away_team_id_fkey", "matches_winner_team_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	return err
}
