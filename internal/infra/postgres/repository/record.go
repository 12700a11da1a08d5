package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
	"github.com/aliskhannn/fact-quiz/internal/infra/postgres"
)

// RecordRepository provides access to quiz records stored in the database.
type RecordRepository struct {
	db postgres.DBTX
}

// NewRecordRepository creates a new RecordRepository with the provided database pool.
func NewRecordRepository(db postgres.DBTX) *RecordRepository {
	return &RecordRepository{db: db}
}

// GetAll returns all records with non-empty text fields ordered by ID.
func (r *RecordRepository) GetAll(ctx context.Context) ([]entities.Record, error) {
	query := `
		SELECT id, group_id, subject, agent, attribute
		FROM quiz_records
		WHERE subject <> '' AND agent <> '' AND attribute <> ''
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get records: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}

	return records, nil
}

// GetByID returns the record with the given ID.
func (r *RecordRepository) GetByID(ctx context.Context, id int) (entities.Record, error) {
	query := `
		SELECT id, group_id, subject, agent, attribute
		FROM quiz_records
		WHERE id = $1
	`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return entities.Record{}, fmt.Errorf("get record: %w", err)
	}

	rec, err := pgx.CollectExactlyOneRow(rows, scanRecord)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.Record{}, entities.ErrRecordNotFound
		}
		return entities.Record{}, fmt.Errorf("scan record: %w", err)
	}

	return rec, nil
}

// Upsert inserts records or updates existing ones by ID.
func (r *RecordRepository) Upsert(ctx context.Context, records []entities.Record) error {
	query := `
		INSERT INTO quiz_records (id, group_id, subject, agent, attribute)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			group_id = EXCLUDED.group_id,
			subject = EXCLUDED.subject,
			agent = EXCLUDED.agent,
			attribute = EXCLUDED.attribute
	`

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query, rec.ID, rec.GroupID, rec.Subject, rec.Agent, rec.Attribute)
	}

	br := r.db.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("upsert records: %w", err)
	}

	return nil
}

func scanRecord(row pgx.CollectableRow) (entities.Record, error) {
	var rec entities.Record
	err := row.Scan(&rec.ID, &rec.GroupID, &rec.Subject, &rec.Agent, &rec.Attribute)
	return rec, err
}
