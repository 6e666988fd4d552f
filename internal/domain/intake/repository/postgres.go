package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/statementkit/statement-intake/internal/domain/transactions"
)

// DB is the slice of pgxpool.Pool the repository needs. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresRepository implements Repository on Postgres.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository creates a Postgres-backed repository.
func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateJob(ctx context.Context, sessionID, fileName string) (uuid.UUID, error) {
	query := `
		INSERT INTO extraction_jobs (session_id, file_name, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, sessionID, fileName, JobStatusProcessing).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("repository: create job: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) FinishJob(ctx context.Context, jobID uuid.UUID, status string, rowCount int, errorMessage string) error {
	query := `
		UPDATE extraction_jobs
		SET status = $2, row_count = $3, error_message = NULLIF($4, ''), finished_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, jobID, status, rowCount, errorMessage)
	if err != nil {
		return fmt.Errorf("repository: finish job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repository: finish job: %w", pgx.ErrNoRows)
	}
	return nil
}

func (r *PostgresRepository) InsertRows(ctx context.Context, jobID uuid.UUID, rows []transactions.Transaction) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO extracted_transactions
			(job_id, position, tx_date, description, reference, debit, credit, balance, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for i, tx := range rows {
		batch.Queue(query, jobID, i, tx.Date, tx.Description, tx.Reference, tx.Debit, tx.Credit, tx.Balance, tx.Category)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("repository: insert rows: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) ListRecentJobs(ctx context.Context, sessionID string, limit int) ([]ExtractionJob, error) {
	query := `
		SELECT id, session_id, file_name, status, row_count,
			COALESCE(error_message, ''), created_at, finished_at
		FROM extraction_jobs
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []ExtractionJob
	for rows.Next() {
		var j ExtractionJob
		if err := rows.Scan(&j.ID, &j.SessionID, &j.FileName, &j.Status, &j.RowCount,
			&j.ErrorMessage, &j.CreatedAt, &j.FinishedAt); err != nil {
			return nil, fmt.Errorf("repository: scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: list jobs: %w", err)
	}
	return jobs, nil
}

func (r *PostgresRepository) DeleteSessionJobs(ctx context.Context, sessionID string) error {
	query := `DELETE FROM extraction_jobs WHERE session_id = $1`

	if _, err := r.db.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("repository: delete session jobs: %w", err)
	}
	return nil
}
