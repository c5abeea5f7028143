// Package crawl coordinates ingestion runs: one source, the whole
// catalog, the keyword list, or a manual batch. Every run is recorded
// as a crawl_runs row that opens as running and closes exactly once.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hoehoe5252-yong/yong2/internal/config"
	"github.com/hoehoe5252-yong/yong2/internal/dedup"
	"github.com/hoehoe5252-yong/yong2/internal/extract"
	"github.com/hoehoe5252-yong/yong2/internal/fetch"
	"github.com/hoehoe5252-yong/yong2/internal/keyword"
	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/models"
	"github.com/hoehoe5252-yong/yong2/internal/repository"
)

// Fetcher is the slice of the HTTP fetcher the coordinator uses.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// Catalog is the slice of the source registry the coordinator uses.
type Catalog interface {
	Get(id string) (models.Source, error)
	List() []models.Source
	ListCrawlable() []models.Source
}

// ArticleStore is the article persistence the coordinator needs.
type ArticleStore interface {
	Insert(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	ListRecentBySource(ctx context.Context, sourceID string, since time.Time) ([]*models.Article, error)
}

// RunStore records run lifecycle rows.
type RunStore interface {
	Start(ctx context.Context, sourceID string) (*models.CrawlRun, error)
	Close(ctx context.Context, runID string, status models.RunStatus, articleCount int, errorMessage string) error
	RecordSkipped(ctx context.Context, sourceID, reason string) (*models.CrawlRun, error)
}

// KeywordIngestor runs keyword-search ingestion for one keyword.
type KeywordIngestor interface {
	Ingest(ctx context.Context, kw string) (keyword.Result, error)
}

// KeywordSettings lists the keywords to crawl.
type KeywordSettings interface {
	ListActive(ctx context.Context) ([]*models.KeywordSetting, error)
}

// EventPublisher emits run lifecycle events. May be nil when events are
// disabled.
type EventPublisher interface {
	RunClosed(ctx context.Context, run *models.CrawlRun) error
}

// Coordinator drives crawl runs end to end.
type Coordinator struct {
	fetcher  Fetcher
	catalog  Catalog
	articles ArticleStore
	runs     RunStore
	ingestor KeywordIngestor
	keywords KeywordSettings
	events   EventPublisher
	cfg      config.CrawlConfig
	logger   logger.Logger

	now func() time.Time
}

func NewCoordinator(
	fetcher Fetcher,
	catalog Catalog,
	articles ArticleStore,
	runs RunStore,
	ingestor KeywordIngestor,
	keywords KeywordSettings,
	events EventPublisher,
	cfg config.CrawlConfig,
	log logger.Logger,
) *Coordinator {
	return &Coordinator{
		fetcher:  fetcher,
		catalog:  catalog,
		articles: articles,
		runs:     runs,
		ingestor: ingestor,
		keywords: keywords,
		events:   events,
		cfg:      cfg,
		logger:   log,
		now:      time.Now,
	}
}

// RunSource crawls one source by id. The returned result mirrors the
// closed run row. Unknown ids surface the registry error untouched so
// handlers can map it to a 404.
func (c *Coordinator) RunSource(ctx context.Context, sourceID string) (*models.CrawlRunResult, error) {
	src, err := c.catalog.Get(sourceID)
	if err != nil {
		return nil, err
	}

	run, err := c.runs.Start(ctx, src.ID)
	if err != nil {
		return nil, fmt.Errorf("start crawl run: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.cfg.RunTimeout)
	defer cancel()

	outcome := c.crawlSource(runCtx, src)
	result := c.closeRun(ctx, run, outcome)
	return result, nil
}

// outcome is what a source crawl produced before status mapping.
type outcome struct {
	inserted int
	failures int
	listErr  error
}

// closeRun maps an outcome to a terminal status, closes the run row,
// and publishes the lifecycle event.
func (c *Coordinator) closeRun(ctx context.Context, run *models.CrawlRun, o outcome) *models.CrawlRunResult {
	status := models.RunStatusSuccess
	message := ""
	switch {
	case o.listErr != nil:
		status = models.RunStatusFailed
		message = o.listErr.Error()
	case o.failures > 0:
		status = models.RunStatusPartialFailure
		message = fmt.Sprintf("%d candidate(s) failed", o.failures)
	}

	// Close on the parent context: the run budget expiring must not
	// prevent recording the outcome.
	if err := c.runs.Close(ctx, run.ID, status, o.inserted, message); err != nil {
		c.logger.Error("Failed to close crawl run",
			logger.String("run_id", run.ID),
			logger.String("source_id", run.SourceID),
			logger.Error(err),
		)
	}

	run.Status = status
	run.ArticleCount = o.inserted
	run.ErrorMessage = message
	c.publish(ctx, run)

	return &models.CrawlRunResult{
		Status:       status,
		ArticleCount: o.inserted,
		ErrorMessage: message,
	}
}

func (c *Coordinator) publish(ctx context.Context, run *models.CrawlRun) {
	if c.events == nil {
		return
	}
	if err := c.events.RunClosed(ctx, run); err != nil {
		c.logger.Warn("Failed to publish run event",
			logger.String("run_id", run.ID),
			logger.Error(err),
		)
	}
}

// crawlSource does the work of one run: fetch the list pages, extract
// candidates, classify them against a snapshot of stored articles, and
// insert or merge the survivors. Candidate-level failures are counted,
// never propagated.
func (c *Coordinator) crawlSource(ctx context.Context, src models.Source) outcome {
	now := c.now()

	snapshot, err := c.articles.ListRecentBySource(ctx, src.ID, snapshotSince(now, c.cfg.RecencyDays))
	if err != nil {
		return outcome{listErr: fmt.Errorf("load dedup snapshot: %w", err)}
	}
	index := dedup.NewIndex(snapshot, 0)

	candidates, listFailures, listErr := c.collectCandidates(ctx, src)
	if listErr != nil {
		return outcome{listErr: listErr}
	}

	actions := planActions(index, candidates, now, c.cfg)
	c.enrichDetails(ctx, src, actions)

	o := outcome{failures: listFailures}
	for _, action := range actions {
		if ctx.Err() != nil {
			o.listErr = runBudgetError(ctx.Err())
			return o
		}
		c.applyAction(ctx, action, now, &o)
	}

	c.logger.Info("Source crawl finished",
		logger.String("source_id", src.ID),
		logger.Int("candidates", len(candidates)),
		logger.Int("inserted", o.inserted),
		logger.Int("failures", o.failures),
	)
	return o
}

// collectCandidates fetches and extracts every start URL. A page-level
// failure only fails the run when no page produced candidates;
// otherwise it counts as a failure and the run continues partial.
func (c *Coordinator) collectCandidates(ctx context.Context, src models.Source) (candidates []models.Candidate, failures int, listErr error) {
	seen := make(map[string]bool)
	var pageErrs []error

	for _, startURL := range src.StartURLs {
		if ctx.Err() != nil {
			return nil, failures, runBudgetError(ctx.Err())
		}

		res, err := c.fetcher.Fetch(ctx, startURL)
		if err != nil {
			pageErrs = append(pageErrs, fmt.Errorf("fetch %s: %w", startURL, err))
			continue
		}

		extracted, err := extract.List(res.Body, startURL, src)
		if err != nil {
			pageErrs = append(pageErrs, err)
			continue
		}

		for _, cand := range extracted {
			if seen[cand.URL] {
				continue
			}
			seen[cand.URL] = true
			candidates = append(candidates, cand)
			if len(candidates) >= c.cfg.MaxCandidates {
				return candidates, failures + len(pageErrs), nil
			}
		}
	}

	if len(candidates) == 0 && len(pageErrs) > 0 {
		return nil, 0, errors.Join(pageErrs...)
	}
	return candidates, failures + len(pageErrs), nil
}

// actionKind says what a planned candidate does to the store.
type actionKind int

const (
	actionInsert actionKind = iota
	actionUpdate
)

type action struct {
	kind       actionKind
	candidate  models.Candidate
	existing   *models.Article
	needDetail bool
	detailErr  error
}

// planActions classifies candidates in list order against the snapshot
// index, extending the index as inserts are planned so a same-URL pair
// in one run resolves first-wins. Insert planning stops at the
// per-run insert cap.
func planActions(index *dedup.Index, candidates []models.Candidate, now time.Time, cfg config.CrawlConfig) []*action {
	var actions []*action
	planned := 0

	for _, cand := range candidates {
		// A candidate whose list-page date is already outside the
		// recency window is skipped. Undated candidates continue;
		// detail enrichment may still date them.
		if cand.PublishedAt != nil && !extract.WithinDays(cand.PublishedAt, now, cfg.RecencyDays) {
			continue
		}

		decision, existing := index.Classify(cand, now)
		switch decision {
		case dedup.New:
			if planned >= cfg.MaxInserts {
				continue
			}
			planned++
			index.Add(cand.Article())
			actions = append(actions, &action{
				kind:      actionInsert,
				candidate: cand,
			})
		case dedup.Update:
			actions = append(actions, &action{
				kind:      actionUpdate,
				candidate: cand,
				existing:  existing,
			})
		case dedup.Duplicate:
			// Nothing to do.
		}
	}

	return actions
}

// enrichDetails fetches article pages for planned inserts that want
// them, bounded by the detail worker limit. Errors stay on the action;
// the store loop turns them into candidate failures.
func (c *Coordinator) enrichDetails(ctx context.Context, src models.Source, actions []*action) {
	var pending []*action
	for _, a := range actions {
		if a.kind == actionInsert && wantsDetail(src, a.candidate) {
			a.needDetail = true
			pending = append(pending, a)
		}
	}
	if len(pending) == 0 {
		return
	}

	workers := c.cfg.DetailWorkers
	if workers < 1 {
		workers = 1
	}

	sem := make(chan struct{}, workers)
	done := make(chan struct{})
	for _, a := range pending {
		go func(a *action) {
			defer func() { done <- struct{}{} }()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := c.fetcher.Fetch(ctx, a.candidate.URL)
			if err != nil {
				a.detailErr = err
				return
			}
			if err := extract.EnrichDetail(&a.candidate, res.Body); err != nil {
				a.detailErr = err
			}
		}(a)
	}
	for range pending {
		<-done
	}
}

// wantsDetail reports whether a candidate's article page should be
// fetched: sources with detail rules always, feed sources with
// fetch_summary only when the feed item had no summary.
func wantsDetail(src models.Source, cand models.Candidate) bool {
	if src.Rules.Detail {
		return true
	}
	return src.Rules.FetchSummary && cand.Summary == ""
}

func (c *Coordinator) applyAction(ctx context.Context, a *action, now time.Time, o *outcome) {
	if a.detailErr != nil {
		c.logger.Warn("Candidate detail fetch failed",
			logger.String("url", a.candidate.URL),
			logger.Error(a.detailErr),
		)
		o.failures++
		return
	}

	switch a.kind {
	case actionInsert:
		// Enrichment may have dated the candidate; recheck.
		if a.candidate.PublishedAt != nil && !extract.WithinDays(a.candidate.PublishedAt, now, c.cfg.RecencyDays) {
			return
		}
		article := a.candidate.Article()
		err := c.articles.Insert(ctx, article)
		if errors.Is(err, repository.ErrDuplicateURL) {
			// Another run won the race on this URL; a duplicate, not
			// a failure.
			return
		}
		if err != nil {
			c.logger.Warn("Candidate insert failed",
				logger.String("url", a.candidate.URL),
				logger.Error(err),
			)
			o.failures++
			return
		}
		o.inserted++

	case actionUpdate:
		if !dedup.Merge(a.existing, a.candidate) {
			return
		}
		if err := c.articles.Update(ctx, a.existing); err != nil {
			c.logger.Warn("Candidate merge failed",
				logger.String("url", a.candidate.URL),
				logger.Error(err),
			)
			o.failures++
		}
	}
}

// snapshotSince bounds the dedup snapshot. It reaches back past the
// recency window so title dedup still sees slightly older rows.
func snapshotSince(now time.Time, recencyDays int) time.Time {
	days := recencyDays
	if days <= 0 {
		days = 30
	}
	return now.AddDate(0, 0, -(days + 7))
}

func runBudgetError(cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return errors.New("run budget exceeded")
	}
	return cause
}
