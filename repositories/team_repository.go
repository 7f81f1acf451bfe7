package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/pitchside/matchday/models"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamTournamentInvalid = errors.New("team tournament conflict or invalid")
)

// TeamResultDelta is an idempotent increment applied to a team's cumulative
// stats for one completed match. Played always increments by one.
type TeamResultDelta struct {
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	Points       int
	FormSymbol   string // "W", "D" or "L"
}

type TeamRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, statusFilter ...models.TeamStatus) ([]*models.Team, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TeamStatus) error
	ApplyResultDelta(ctx context.Context, exec SQLExecutor, id int, delta TeamResultDelta) error
	ResetForRegeneration(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `
	id, tournament_id, name, seed, status, captain_email,
	played, wins, draws, losses, goals_for, goals_against, goal_difference, points, form,
	created_at`

func scanTeam(rowScanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := rowScanner.Scan(
		&t.ID,
		&t.TournamentID,
		&t.Name,
		&t.Seed,
		&t.Status,
		&t.CaptainEmail,
		&t.Stats.Played,
		&t.Stats.Wins,
		&t.Stats.Draws,
		&t.Stats.Losses,
		&t.Stats.GoalsFor,
		&t.Stats.GoalsAgainst,
		&t.Stats.GoalDifference,
		&t.Stats.Points,
		pq.Array(&t.Stats.Form),
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return scanTeam(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, statusFilter ...models.TeamStatus) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1`
	args := []interface{}{tournamentID}

	if len(statusFilter) > 0 {
		statuses := make([]string, len(statusFilter))
		for i, s := range statusFilter {
			statuses[i] = string(s)
		}
		query += ` AND status = ANY($2)`
		args = append(args, pq.Array(statuses))
	}
	query += ` ORDER BY seed ASC, id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TeamStatus) error {
	query := `UPDATE teams SET status = $1 WHERE id = $2`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// ApplyResultDelta mutates the stats row with a single increment-by-delta
// statement keyed by team id, so concurrent result reports for different
// matches never lose updates. The form trail appends the new symbol and
// keeps the trailing entries up to models.FormLength.
func (r *postgresTeamRepository) ApplyResultDelta(ctx context.Context, exec SQLExecutor, id int, delta TeamResultDelta) error {
	query := `
		UPDATE teams SET
			played = played + 1,
			wins = wins + $2,
			draws = draws + $3,
			losses = losses + $4,
			goals_for = goals_for + $5,
			goals_against = goals_against + $6,
			goal_difference = goal_difference + $5 - $6,
			points = points + $7,
			form = (form || $8::varchar)[GREATEST(array_length(form || $8::varchar, 1) - $9 + 1, 1):]
		WHERE id = $1`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		id,
		delta.Wins,
		delta.Draws,
		delta.Losses,
		delta.GoalsFor,
		delta.GoalsAgainst,
		delta.Points,
		delta.FormSymbol,
		models.FormLength,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// ResetForRegeneration reactivates previously eliminated teams and zeroes
// the stats of every team still in the running, making bracket
// regeneration idempotent with respect to earlier attempts. Withdrawn and
// disqualified teams are left untouched.
func (r *postgresTeamRepository) ResetForRegeneration(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	query := `
		UPDATE teams SET
			status = $2,
			played = 0, wins = 0, draws = 0, losses = 0,
			goals_for = 0, goals_against = 0, goal_difference = 0, points = 0,
			form = '{}'
		WHERE tournament_id = $1 AND status IN ($2, $3)`

	_, err := r.getExecutor(exec).ExecContext(ctx, query,
		tournamentID, models.TeamStatusActive, models.TeamStatusEliminated)
	return err
}
