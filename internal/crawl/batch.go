package crawl

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/models"
	"github.com/hoehoe5252-yong/yong2/internal/repository"
)

// RunAll crawls every catalog source with bounded concurrency and
// returns a per-source result map. Manual-only sources are recorded as
// skipped instead of crawled.
func (c *Coordinator) RunAll(ctx context.Context) map[string]*models.CrawlRunResult {
	sources := c.catalog.List()
	results := make(map[string]*models.CrawlRunResult, len(sources))

	// Skipped entries go into the map before any worker starts; once
	// workers run, every write holds mu.
	for _, src := range sources {
		if src.Rules.ManualOnly {
			results[src.ID] = c.skipManualOnly(ctx, src.ID)
		}
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, c.cfg.WorkerLimit)

	for _, src := range c.catalog.ListCrawlable() {
		wg.Add(1)
		go func(sourceID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := c.RunSource(ctx, sourceID)
			if err != nil {
				result = &models.CrawlRunResult{
					Status:       models.RunStatusFailed,
					ErrorMessage: err.Error(),
				}
			}

			mu.Lock()
			results[sourceID] = result
			mu.Unlock()
		}(src.ID)
	}

	wg.Wait()
	return results
}

func (c *Coordinator) skipManualOnly(ctx context.Context, sourceID string) *models.CrawlRunResult {
	run, err := c.runs.RecordSkipped(ctx, sourceID, "manual-only source")
	if err != nil {
		c.logger.Error("Failed to record skipped run",
			logger.String("source_id", sourceID),
			logger.Error(err),
		)
	} else {
		c.publish(ctx, run)
	}

	return &models.CrawlRunResult{Status: models.RunStatusSkipped}
}

// RunKeywords ingests every active keyword and returns a per-keyword
// result map. Each keyword gets its own run row under the sentinel
// source id keyword:<norm>.
func (c *Coordinator) RunKeywords(ctx context.Context) (map[string]*models.CrawlRunResult, error) {
	settings, err := c.keywords.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active keywords: %w", err)
	}

	results := make(map[string]*models.CrawlRunResult, len(settings))
	for _, setting := range settings {
		results[setting.Keyword] = c.runKeyword(ctx, setting)
	}
	return results, nil
}

func (c *Coordinator) runKeyword(ctx context.Context, setting *models.KeywordSetting) *models.CrawlRunResult {
	run, err := c.runs.Start(ctx, "keyword:"+setting.KeywordNorm)
	if err != nil {
		return &models.CrawlRunResult{
			Status:       models.RunStatusFailed,
			ErrorMessage: fmt.Sprintf("start crawl run: %v", err),
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, c.cfg.RunTimeout)
	defer cancel()

	res, err := c.ingestor.Ingest(runCtx, setting.Keyword)
	o := outcome{inserted: res.Inserted, failures: res.Failures}
	if err != nil {
		o.listErr = err
	}
	return c.closeRun(ctx, run, o)
}

// ImportBatch stores manually supplied candidates through the regular
// dedup path and records a manual_import run. Candidates missing a
// title or URL count as failures; duplicates are silently absorbed by
// the unique constraint.
func (c *Coordinator) ImportBatch(ctx context.Context, candidates []models.Candidate) (*models.CrawlRunResult, error) {
	run, err := c.runs.Start(ctx, models.ManualImportSourceID)
	if err != nil {
		return nil, fmt.Errorf("start crawl run: %w", err)
	}

	var o outcome
	for i := range candidates {
		cand := candidates[i]
		if cand.SourceID == "" {
			cand.SourceID = models.ManualImportSourceID
		}
		if cand.Title == "" || cand.URL == "" {
			o.failures++
			continue
		}

		a := &action{kind: actionInsert, candidate: cand}
		c.applyImport(ctx, a, &o)
	}

	return c.closeRun(ctx, run, o), nil
}

// applyImport is applyAction without the recency filter: a manual
// import deliberately carries whatever the operator collected.
func (c *Coordinator) applyImport(ctx context.Context, a *action, o *outcome) {
	article := a.candidate.Article()
	err := c.articles.Insert(ctx, article)
	switch {
	case err == nil:
		o.inserted++
	case errors.Is(err, repository.ErrDuplicateURL):
		// Already stored, nothing to do.
	default:
		c.logger.Warn("Manual import insert failed",
			logger.String("url", a.candidate.URL),
			logger.Error(err),
		)
		o.failures++
	}
}
