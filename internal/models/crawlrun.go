package models

import "time"

// RunStatus is the lifecycle state of a crawl run. A run starts as
// running and transitions exactly once to one of the terminal states.
type RunStatus string

const (
	RunStatusRunning        RunStatus = "running"
	RunStatusSuccess        RunStatus = "success"
	RunStatusPartialFailure RunStatus = "partial_failure"
	RunStatusFailed         RunStatus = "failed"
	RunStatusSkipped        RunStatus = "skipped"
)

// Terminal reports whether the status ends a run.
func (s RunStatus) Terminal() bool {
	return s != RunStatusRunning
}

// CrawlRun records one bounded execution of the ingestion pipeline for one
// source, one keyword, or one manual batch. Rows are never mutated after
// closing and are retained indefinitely for audit.
type CrawlRun struct {
	ID           string     `json:"id"            db:"id"`
	SourceID     string     `json:"source_id"     db:"source_id"`
	StartedAt    time.Time  `json:"started_at"    db:"started_at"`
	FinishedAt   *time.Time `json:"finished_at"   db:"finished_at"`
	Status       RunStatus  `json:"status"        db:"status"`
	ErrorMessage string     `json:"error_message" db:"error_message"`
	ArticleCount int        `json:"article_count" db:"article_count"`
}

// CrawlRunResult is the API-facing outcome of a run.
type CrawlRunResult struct {
	Status       RunStatus `json:"status"`
	ArticleCount int       `json:"article_count"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// KeywordSetting is a configured keyword for keyword-news crawling.
type KeywordSetting struct {
	ID          int64     `json:"id"           db:"id"`
	Keyword     string    `json:"keyword"      db:"keyword"`
	KeywordNorm string    `json:"keyword_norm" db:"keyword_norm"`
	IsActive    bool      `json:"is_active"    db:"is_active"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"   db:"updated_at"`
}
