// Package repository persists extraction history. Persistence is best effort:
// the intake flow works without a database, and callers treat errors here as
// log-and-continue.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/statementkit/statement-intake/internal/domain/transactions"
)

// Job statuses.
const (
	JobStatusProcessing = "processing"
	JobStatusSucceeded  = "succeeded"
	JobStatusFailed     = "failed"
)

// ExtractionJob records one extraction attempt.
type ExtractionJob struct {
	ID           uuid.UUID
	SessionID    string
	FileName     string
	Status       string
	RowCount     int
	ErrorMessage string
	CreatedAt    time.Time
	FinishedAt   *time.Time
}

// Repository stores extraction jobs and their rows.
type Repository interface {
	// CreateJob inserts a job in the processing state and returns its ID.
	CreateJob(ctx context.Context, sessionID, fileName string) (uuid.UUID, error)
	// FinishJob marks a job succeeded or failed. errorMessage is empty on
	// success.
	FinishJob(ctx context.Context, jobID uuid.UUID, status string, rowCount int, errorMessage string) error
	// InsertRows bulk-inserts the extracted rows for a job.
	InsertRows(ctx context.Context, jobID uuid.UUID, rows []transactions.Transaction) error
	// ListRecentJobs returns the newest jobs for a session, newest first.
	ListRecentJobs(ctx context.Context, sessionID string, limit int) ([]ExtractionJob, error)
	// DeleteSessionJobs removes all history for a session.
	DeleteSessionJobs(ctx context.Context, sessionID string) error
}
