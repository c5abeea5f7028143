package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/models"
)

type CrawlRunRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewCrawlRunRepository(db *sql.DB, log logger.Logger) *CrawlRunRepository {
	return &CrawlRunRepository{
		db:     db,
		logger: log,
	}
}

// Start inserts a run row in the running state and returns it.
func (r *CrawlRunRepository) Start(ctx context.Context, sourceID string) (*models.CrawlRun, error) {
	run := &models.CrawlRun{
		ID:       uuid.New().String(),
		SourceID: sourceID,
		Status:   models.RunStatusRunning,
	}

	query := `
		INSERT INTO crawl_runs (id, source_id, status)
		VALUES ($1, $2, $3)
		RETURNING started_at
	`

	err := r.db.QueryRowContext(ctx, query, run.ID, run.SourceID, run.Status).
		Scan(&run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("insert crawl run: %w", err)
	}

	return run, nil
}

// Close moves a run to a terminal status. The WHERE clause only matches
// running rows, so a second close of the same run returns ErrRunClosed
// instead of overwriting the recorded outcome.
func (r *CrawlRunRepository) Close(ctx context.Context, runID string, status models.RunStatus, articleCount int, errorMessage string) error {
	if !status.Terminal() {
		return fmt.Errorf("close crawl run: %q is not a terminal status", status)
	}

	query := `
		UPDATE crawl_runs
		SET status = $2, article_count = $3, error_message = $4, finished_at = now()
		WHERE id = $1 AND status = $5
	`

	result, err := r.db.ExecContext(ctx, query, runID, status, articleCount, errorMessage, models.RunStatusRunning)
	if err != nil {
		return fmt.Errorf("close crawl run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRunClosed
	}

	return nil
}

// RecordSkipped writes an already-closed run row for a source a batch
// crawl decided not to run, so the audit trail shows the decision.
func (r *CrawlRunRepository) RecordSkipped(ctx context.Context, sourceID, reason string) (*models.CrawlRun, error) {
	run := &models.CrawlRun{
		ID:           uuid.New().String(),
		SourceID:     sourceID,
		Status:       models.RunStatusSkipped,
		ErrorMessage: reason,
	}

	query := `
		INSERT INTO crawl_runs (id, source_id, status, error_message, finished_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING started_at, finished_at
	`

	err := r.db.QueryRowContext(ctx, query, run.ID, run.SourceID, run.Status, run.ErrorMessage).
		Scan(&run.StartedAt, &run.FinishedAt)
	if err != nil {
		return nil, fmt.Errorf("insert skipped crawl run: %w", err)
	}

	return run, nil
}

// ListRecent returns the latest runs, optionally for one source.
func (r *CrawlRunRepository) ListRecent(ctx context.Context, sourceID string, limit int) ([]*models.CrawlRun, error) {
	query := `
		SELECT id, source_id, started_at, finished_at, status, error_message, article_count
		FROM crawl_runs
		WHERE ($1 = '' OR source_id = $1)
		ORDER BY started_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, sourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query crawl runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*models.CrawlRun, 0)
	for rows.Next() {
		var run models.CrawlRun
		if scanErr := rows.Scan(
			&run.ID,
			&run.SourceID,
			&run.StartedAt,
			&run.FinishedAt,
			&run.Status,
			&run.ErrorMessage,
			&run.ArticleCount,
		); scanErr != nil {
			return nil, fmt.Errorf("scan crawl run: %w", scanErr)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crawl runs: %w", err)
	}

	return runs, nil
}

// FailStaleRuns closes runs stuck in the running state longer than
// maxAge, a recovery path for runs orphaned by a crash.
func (r *CrawlRunRepository) FailStaleRuns(ctx context.Context, maxAge time.Duration) (int64, error) {
	query := `
		UPDATE crawl_runs
		SET status = $1, error_message = 'stale run closed at startup', finished_at = now()
		WHERE status = $2 AND started_at < now() - $3::interval
	`

	interval := fmt.Sprintf("%d seconds", int(maxAge.Seconds()))
	result, err := r.db.ExecContext(ctx, query, models.RunStatusFailed, models.RunStatusRunning, interval)
	if err != nil {
		return 0, fmt.Errorf("fail stale runs: %w", err)
	}

	closed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return closed, nil
}
