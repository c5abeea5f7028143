// Package prune enforces the retention policy: articles older than the
// retention window disappear unless a bookmark protects them.
package prune

import (
	"context"
	"fmt"
	"time"

	"github.com/hoehoe5252-yong/yong2/internal/logger"
)

// ArticleStore deletes unbookmarked rows older than a cutoff.
type ArticleStore interface {
	DeleteUnbookmarkedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Pruner deletes expired article rows on demand or on schedule.
type Pruner struct {
	articles        ArticleStore
	keywordArticles ArticleStore
	retentionDays   int
	logger          logger.Logger

	now func() time.Time
}

func New(articles, keywordArticles ArticleStore, retentionDays int, log logger.Logger) *Pruner {
	return &Pruner{
		articles:        articles,
		keywordArticles: keywordArticles,
		retentionDays:   retentionDays,
		logger:          log,
		now:             time.Now,
	}
}

// Enabled reports whether pruning is configured. Retention 0 disables it.
func (p *Pruner) Enabled() bool {
	return p.retentionDays > 0
}

// Run deletes articles and keyword articles created strictly before the
// retention cutoff that have no active bookmark. The boundary row
// (created exactly at the cutoff) survives. Returns the total deleted.
func (p *Pruner) Run(ctx context.Context) (int64, error) {
	if !p.Enabled() {
		return 0, nil
	}

	cutoff := p.now().Truncate(24 * time.Hour).AddDate(0, 0, -p.retentionDays)

	deleted, err := p.articles.DeleteUnbookmarkedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune articles: %w", err)
	}

	keywordDeleted, err := p.keywordArticles.DeleteUnbookmarkedBefore(ctx, cutoff)
	if err != nil {
		return deleted, fmt.Errorf("prune keyword articles: %w", err)
	}

	total := deleted + keywordDeleted
	p.logger.Info("Prune finished",
		logger.Time("cutoff", cutoff),
		logger.Int64("articles_deleted", deleted),
		logger.Int64("keyword_articles_deleted", keywordDeleted),
	)
	return total, nil
}
