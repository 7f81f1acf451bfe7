package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pitchside/matchday/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	UpdateBracketStatus(ctx context.Context, exec SQLExecutor, id int, status models.BracketStatus) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, owner_id, format, seeding, bracket_status, max_teams, created_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.OwnerID,
		&t.Format,
		&t.Seeding,
		&t.BracketStatus,
		&t.MaxTeams,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) UpdateBracketStatus(ctx context.Context, exec SQLExecutor, id int, status models.BracketStatus) error {
	query := `UPDATE tournaments SET bracket_status = $1 WHERE id = $2`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
