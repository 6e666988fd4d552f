package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/statementkit/statement-intake/internal/domain/categorization"
	"github.com/statementkit/statement-intake/internal/domain/intake"
	"github.com/statementkit/statement-intake/internal/domain/intake/repository"
	"github.com/statementkit/statement-intake/internal/domain/transactions"
	"github.com/statementkit/statement-intake/pkg/metrics"
)

// enrichingExtractor decorates an extractor with category assignment for
// each row.
type enrichingExtractor struct {
	inner  intake.Extractor
	engine *categorization.Engine
}

func newEnrichingExtractor(inner intake.Extractor, engine *categorization.Engine) intake.Extractor {
	return &enrichingExtractor{inner: inner, engine: engine}
}

func (e *enrichingExtractor) Extract(ctx context.Context, f intake.File) ([]transactions.Transaction, error) {
	rows, err := e.inner.Extract(ctx, f)
	if err != nil {
		return nil, err
	}

	descriptions := make([]string, len(rows))
	for i, row := range rows {
		descriptions[i] = row.Description
	}
	categories := e.engine.MatchBatch(descriptions)
	for i := range rows {
		rows[i].Category = categories[i]
	}
	return rows, nil
}

// recordingExtractor decorates an extractor with best-effort history
// persistence. Database failures are logged and never surface to the flow.
type recordingExtractor struct {
	inner     intake.Extractor
	repo      repository.Repository
	sessionID string
	logger    *slog.Logger
}

func newRecordingExtractor(inner intake.Extractor, repo repository.Repository, sessionID string, logger *slog.Logger) intake.Extractor {
	return &recordingExtractor{inner: inner, repo: repo, sessionID: sessionID, logger: logger}
}

func (e *recordingExtractor) Extract(ctx context.Context, f intake.File) ([]transactions.Transaction, error) {
	jobID, jobErr := e.repo.CreateJob(ctx, e.sessionID, f.Name)
	if jobErr != nil {
		e.logger.Warn("failed to record extraction job", slog.Any("error", jobErr))
	}

	rows, err := e.inner.Extract(ctx, f)

	if jobErr != nil {
		return rows, err
	}

	if err != nil {
		if ferr := e.repo.FinishJob(ctx, jobID, repository.JobStatusFailed, 0, err.Error()); ferr != nil {
			e.logger.Warn("failed to finish extraction job", slog.Any("error", ferr))
		}
		return nil, err
	}

	if ierr := e.repo.InsertRows(ctx, jobID, rows); ierr != nil {
		e.logger.Warn("failed to record extracted rows", slog.Any("error", ierr))
	}
	if ferr := e.repo.FinishJob(ctx, jobID, repository.JobStatusSucceeded, len(rows), ""); ferr != nil {
		e.logger.Warn("failed to finish extraction job", slog.Any("error", ferr))
	}
	return rows, nil
}

// instrumentedExtractor decorates an extractor with Prometheus metrics.
type instrumentedExtractor struct {
	inner intake.Extractor
}

func newInstrumentedExtractor(inner intake.Extractor) intake.Extractor {
	return &instrumentedExtractor{inner: inner}
}

func (e *instrumentedExtractor) Extract(ctx context.Context, f intake.File) ([]transactions.Transaction, error) {
	start := time.Now()
	rows, err := e.inner.Extract(ctx, f)
	metrics.ExtractionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	metrics.UploadsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.ExtractedRows.Observe(float64(len(rows)))
	return rows, nil
}
