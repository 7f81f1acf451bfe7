package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/pitchside/matchday/repositories"
)

// TxRunner scopes a sequence of repository writes to one transaction.
// Multi-write operations over the match graph (generation, swaps) are not
// naturally atomic; running them through a transaction keeps a mid-sequence
// failure from leaving a partial graph behind.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

type sqlTxRunner struct {
	db *sql.DB
}

func NewSQLTxRunner(db *sql.DB) TxRunner {
	return &sqlTxRunner{db: db}
}

func (r *sqlTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("tx: rollback after error %v also failed: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
