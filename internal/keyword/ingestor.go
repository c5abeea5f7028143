package keyword

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hoehoe5252-yong/yong2/internal/extract"
	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/models"
)

// ArticleStore is the keyword-article persistence the ingestor needs.
type ArticleStore interface {
	Upsert(ctx context.Context, article *models.KeywordArticle) (bool, error)
}

// BookmarkStore auto-bookmarks freshly inserted keyword articles.
type BookmarkStore interface {
	UpsertKeyword(ctx context.Context, keywordArticleID int64) error
}

// Result is the outcome of ingesting one keyword.
type Result struct {
	Inserted int
	Failures int
}

// Ingestor runs the configured backends for a keyword, merges their
// hits, and stores the survivors as auto-bookmarked keyword articles.
type Ingestor struct {
	backends   []Backend
	articles   ArticleStore
	bookmarks  BookmarkStore
	windowDays int
	maxItems   int
	logger     logger.Logger

	now func() time.Time
}

func NewIngestor(backends []Backend, articles ArticleStore, bookmarks BookmarkStore, windowDays, maxItems int, log logger.Logger) *Ingestor {
	return &Ingestor{
		backends:   backends,
		articles:   articles,
		bookmarks:  bookmarks,
		windowDays: windowDays,
		maxItems:   maxItems,
		logger:     log,
		now:        time.Now,
	}
}

// NormalizeKeyword reduces a keyword to its settings key.
func NormalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// Ingest searches every backend for the keyword and stores the merged
// result set. A backend failure is logged and skipped; only all
// backends failing aborts the ingest.
func (g *Ingestor) Ingest(ctx context.Context, keyword string) (Result, error) {
	var all []Item
	var backendErrs []error

	for _, backend := range g.backends {
		items, err := backend.Search(ctx, keyword)
		if err != nil {
			g.logger.Warn("Keyword backend failed",
				logger.String("backend", backend.Name()),
				logger.String("keyword", keyword),
				logger.Error(err),
			)
			backendErrs = append(backendErrs, fmt.Errorf("%s: %w", backend.Name(), err))
			continue
		}
		all = append(all, items...)
	}

	if len(backendErrs) == len(g.backends) && len(backendErrs) > 0 {
		return Result{}, fmt.Errorf("all keyword backends failed: %w", errors.Join(backendErrs...))
	}

	now := g.now()
	merged := mergeItems(all)
	merged = g.applyWindow(merged, now)
	if g.maxItems > 0 && len(merged) > g.maxItems {
		merged = merged[:g.maxItems]
	}

	var res Result
	res.Failures = len(backendErrs)
	norm := NormalizeKeyword(keyword)

	for _, item := range merged {
		article := &models.KeywordArticle{
			Keyword:     keyword,
			KeywordNorm: norm,
			Title:       displayTitle(item),
			URL:         item.URL,
			Summary:     item.Summary,
			ImageURL:    item.ImageURL,
			PublishedAt: item.PublishedAt,
		}

		inserted, err := g.articles.Upsert(ctx, article)
		if err != nil {
			g.logger.Warn("Keyword article store failed",
				logger.String("keyword", keyword),
				logger.String("url", item.URL),
				logger.Error(err),
			)
			res.Failures++
			continue
		}
		if !inserted {
			continue
		}

		res.Inserted++
		if err := g.bookmarks.UpsertKeyword(ctx, article.ID); err != nil {
			g.logger.Warn("Auto-bookmark failed",
				logger.Int64("keyword_article_id", article.ID),
				logger.Error(err),
			)
			res.Failures++
		}
	}

	return res, nil
}

// displayTitle prefixes the press label so the reading list shows where
// a hit came from. Titles that already carry a bracket label keep it.
func displayTitle(item Item) string {
	if item.Press == "" || strings.HasPrefix(item.Title, "[") {
		return item.Title
	}
	return "[" + item.Press + "] " + item.Title
}

// mergeItems collapses duplicates across backends, first by normalized
// URL and then by normalized title, keeping the most recently published
// variant of each. First-seen order is preserved.
func mergeItems(items []Item) []Item {
	type slot struct{ idx int }
	byURL := make(map[string]slot)
	byTitle := make(map[string]slot)
	var out []Item

	keep := func(existing Item, candidate Item) bool {
		if candidate.PublishedAt == nil {
			return false
		}
		if existing.PublishedAt == nil {
			return true
		}
		return candidate.PublishedAt.After(*existing.PublishedAt)
	}

	for _, item := range items {
		titleKey := extract.NormalizeTitle(item.Title)

		if s, ok := byURL[item.URL]; ok {
			if keep(out[s.idx], item) {
				out[s.idx] = item
				// Index the replacement's title so later same-title
				// items still collapse into this slot.
				if titleKey != "" {
					byTitle[titleKey] = s
				}
			}
			continue
		}
		if s, ok := byTitle[titleKey]; ok && titleKey != "" {
			if keep(out[s.idx], item) {
				out[s.idx] = item
				byURL[item.URL] = s
			}
			continue
		}

		byURL[item.URL] = slot{idx: len(out)}
		if titleKey != "" {
			byTitle[titleKey] = slot{idx: len(out)}
		}
		out = append(out, item)
	}

	return out
}

func (g *Ingestor) applyWindow(items []Item, now time.Time) []Item {
	if g.windowDays <= 0 {
		return items
	}
	kept := items[:0]
	for _, item := range items {
		if extract.WithinDays(item.PublishedAt, now, g.windowDays) {
			kept = append(kept, item)
		}
	}
	return kept
}
