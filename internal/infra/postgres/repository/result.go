package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
	"github.com/aliskhannn/fact-quiz/internal/infra/postgres"
)

// ResultRepository stores finished quiz sessions and their answers.
type ResultRepository struct {
	db         postgres.DBTX
	transactor *postgres.Transactor
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(db postgres.DBTX, transactor *postgres.Transactor) *ResultRepository {
	return &ResultRepository{db: db, transactor: transactor}
}

// Save writes the result and all of its answers in one transaction.
func (r *ResultRepository) Save(ctx context.Context, result *entities.SessionResult) error {
	return r.transactor.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO quiz_results (
				id, owner, correct, total, answered, retried, started_at, finished_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`

		_, err := tx.Exec(
			ctx,
			query,
			result.ID,
			result.Owner,
			result.Score.Correct,
			result.Score.Total,
			result.Score.Answered,
			result.Score.Retried,
			result.StartedAt,
			result.FinishedAt,
		)
		if err != nil {
			return fmt.Errorf("insert quiz result: %w", err)
		}

		answerQuery := `
			INSERT INTO quiz_answers (
				result_id, seq, record_id, kind, prompt, chosen, correct, is_correct, attempt
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		batch := &pgx.Batch{}
		for _, a := range result.Answers {
			batch.Queue(answerQuery,
				result.ID, a.Seq, a.RecordID, string(a.Kind), a.Prompt, a.Chosen, a.Correct, a.IsCorrect, a.Attempt,
			)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert quiz answers: %w", err)
		}

		return nil
	})
}

// ByOwner returns the results of one owner, oldest first. Answers are not loaded.
func (r *ResultRepository) ByOwner(ctx context.Context, owner string) ([]*entities.SessionResult, error) {
	query := `
		SELECT id, owner, correct, total, answered, retried, started_at, finished_at
		FROM quiz_results
		WHERE owner = $1
		ORDER BY finished_at
	`

	rows, err := r.db.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("get results: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.SessionResult, error) {
		var res entities.SessionResult
		err := row.Scan(
			&res.ID,
			&res.Owner,
			&res.Score.Correct,
			&res.Score.Total,
			&res.Score.Answered,
			&res.Score.Retried,
			&res.StartedAt,
			&res.FinishedAt,
		)
		return &res, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan results: %w", err)
	}

	return results, nil
}
