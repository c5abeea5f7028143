package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/models"
)

type BookmarkRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewBookmarkRepository(db *sql.DB, log logger.Logger) *BookmarkRepository {
	return &BookmarkRepository{
		db:     db,
		logger: log,
	}
}

// Upsert bookmarks an article. A previously removed bookmark is revived
// by clearing removed_at; a manual bookmark never downgrades to auto.
func (r *BookmarkRepository) Upsert(ctx context.Context, articleID int64, isAuto bool) (*models.Bookmark, error) {
	query := `
		INSERT INTO bookmarks (article_id, is_auto)
		VALUES ($1, $2)
		ON CONFLICT (article_id) DO UPDATE SET
			removed_at = NULL,
			is_auto = bookmarks.is_auto AND EXCLUDED.is_auto
		RETURNING id, article_id, is_auto, created_at, removed_at
	`

	var b models.Bookmark
	err := r.db.QueryRowContext(ctx, query, articleID, isAuto).Scan(
		&b.ID,
		&b.ArticleID,
		&b.IsAuto,
		&b.CreatedAt,
		&b.RemovedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert bookmark: %w", err)
	}

	return &b, nil
}

// Remove soft-deletes a bookmark. The row stays so read history remains
// queryable and a later Upsert revives it.
func (r *BookmarkRepository) Remove(ctx context.Context, articleID int64) error {
	query := `
		UPDATE bookmarks
		SET removed_at = now()
		WHERE article_id = $1 AND removed_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, articleID)
	if err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// BookmarkedArticle pairs an active bookmark with its article.
type BookmarkedArticle struct {
	Article  models.Article  `json:"article"`
	Bookmark models.Bookmark `json:"bookmark"`
}

// List returns active bookmarks newest first, with their articles.
func (r *BookmarkRepository) List(ctx context.Context, limit, offset int) ([]*BookmarkedArticle, error) {
	query := `
		SELECT b.id, b.article_id, b.is_auto, b.created_at, b.removed_at,
		       a.id, a.source_id, a.title, a.url, a.content, a.summary, a.tags,
		       a.author, a.image_url, a.published_at, a.created_at
		FROM bookmarks b
		JOIN articles a ON a.id = b.article_id
		WHERE b.removed_at IS NULL
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	defer rows.Close()

	out := make([]*BookmarkedArticle, 0)
	for rows.Next() {
		var ba BookmarkedArticle
		if scanErr := rows.Scan(
			&ba.Bookmark.ID,
			&ba.Bookmark.ArticleID,
			&ba.Bookmark.IsAuto,
			&ba.Bookmark.CreatedAt,
			&ba.Bookmark.RemovedAt,
			&ba.Article.ID,
			&ba.Article.SourceID,
			&ba.Article.Title,
			&ba.Article.URL,
			&ba.Article.Content,
			&ba.Article.Summary,
			&ba.Article.Tags,
			&ba.Article.Author,
			&ba.Article.ImageURL,
			&ba.Article.PublishedAt,
			&ba.Article.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan bookmark: %w", scanErr)
		}
		out = append(out, &ba)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}

	return out, nil
}

// UpsertKeyword bookmarks a keyword article, reviving a removed row.
// Keyword articles discovered by a crawl are bookmarked automatically so
// they surface in the reading list without user action.
func (r *BookmarkRepository) UpsertKeyword(ctx context.Context, keywordArticleID int64) error {
	query := `
		INSERT INTO keyword_bookmarks (keyword_article_id)
		VALUES ($1)
		ON CONFLICT (keyword_article_id) DO UPDATE SET removed_at = NULL
	`

	if _, err := r.db.ExecContext(ctx, query, keywordArticleID); err != nil {
		return fmt.Errorf("upsert keyword bookmark: %w", err)
	}
	return nil
}

// RemoveKeyword soft-deletes a keyword bookmark.
func (r *BookmarkRepository) RemoveKeyword(ctx context.Context, keywordArticleID int64) error {
	query := `
		UPDATE keyword_bookmarks
		SET removed_at = now()
		WHERE keyword_article_id = $1 AND removed_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, keywordArticleID)
	if err != nil {
		return fmt.Errorf("remove keyword bookmark: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
