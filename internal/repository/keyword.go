package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/models"
)

type KeywordArticleRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewKeywordArticleRepository(db *sql.DB, log logger.Logger) *KeywordArticleRepository {
	return &KeywordArticleRepository{
		db:     db,
		logger: log,
	}
}

// Upsert stores a keyword article, filling empty columns of an existing
// row on URL conflict. Returns whether a new row was created, using the
// xmax = 0 trick to tell insert from update.
func (r *KeywordArticleRepository) Upsert(ctx context.Context, article *models.KeywordArticle) (bool, error) {
	query := `
		INSERT INTO keyword_articles (
			keyword, keyword_norm, title, url, summary, image_url, published_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url) DO UPDATE SET
			summary = CASE WHEN keyword_articles.summary = ''
				THEN EXCLUDED.summary ELSE keyword_articles.summary END,
			image_url = CASE WHEN keyword_articles.image_url = ''
				THEN EXCLUDED.image_url ELSE keyword_articles.image_url END,
			published_at = COALESCE(keyword_articles.published_at, EXCLUDED.published_at)
		RETURNING id, created_at, (xmax = 0) AS is_insert
	`

	var isInsert bool
	err := r.db.QueryRowContext(ctx,
		query,
		article.Keyword,
		article.KeywordNorm,
		article.Title,
		article.URL,
		article.Summary,
		article.ImageURL,
		article.PublishedAt,
	).Scan(&article.ID, &article.CreatedAt, &isInsert)

	if err != nil {
		return false, fmt.Errorf("upsert keyword article: %w", err)
	}

	return isInsert, nil
}

// List returns keyword articles newest first, for one keyword when
// keywordNorm is set or across all keywords otherwise.
func (r *KeywordArticleRepository) List(ctx context.Context, keywordNorm string, limit, offset int) ([]*models.KeywordArticle, error) {
	query := `
		SELECT id, keyword, keyword_norm, title, url, summary,
		       image_url, published_at, created_at
		FROM keyword_articles
		WHERE ($1 = '' OR keyword_norm = $1)
		ORDER BY published_at DESC NULLS LAST, created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, keywordNorm, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query keyword articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*models.KeywordArticle, 0)
	for rows.Next() {
		var a models.KeywordArticle
		if scanErr := rows.Scan(
			&a.ID,
			&a.Keyword,
			&a.KeywordNorm,
			&a.Title,
			&a.URL,
			&a.Summary,
			&a.ImageURL,
			&a.PublishedAt,
			&a.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan keyword article: %w", scanErr)
		}
		articles = append(articles, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keyword articles: %w", err)
	}

	return articles, nil
}

// DeleteUnbookmarkedBefore prunes keyword articles the same way regular
// articles are pruned; keyword bookmarks protect their rows.
func (r *KeywordArticleRepository) DeleteUnbookmarkedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM keyword_articles
		WHERE created_at < $1
		  AND id NOT IN (
			SELECT keyword_article_id FROM keyword_bookmarks WHERE removed_at IS NULL
		  )
	`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune keyword articles: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return deleted, nil
}

type KeywordSettingRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewKeywordSettingRepository(db *sql.DB, log logger.Logger) *KeywordSettingRepository {
	return &KeywordSettingRepository{
		db:     db,
		logger: log,
	}
}

// ListActive returns the keywords keyword crawls run for, in creation order.
func (r *KeywordSettingRepository) ListActive(ctx context.Context) ([]*models.KeywordSetting, error) {
	query := `
		SELECT id, keyword, keyword_norm, is_active, created_at, updated_at
		FROM keyword_settings
		WHERE is_active = true
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query keyword settings: %w", err)
	}
	defer rows.Close()

	settings := make([]*models.KeywordSetting, 0)
	for rows.Next() {
		var s models.KeywordSetting
		if scanErr := rows.Scan(
			&s.ID,
			&s.Keyword,
			&s.KeywordNorm,
			&s.IsActive,
			&s.CreatedAt,
			&s.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan keyword setting: %w", scanErr)
		}
		settings = append(settings, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keyword settings: %w", err)
	}

	return settings, nil
}

// Upsert registers a keyword, reactivating it when it already exists.
func (r *KeywordSettingRepository) Upsert(ctx context.Context, setting *models.KeywordSetting) error {
	query := `
		INSERT INTO keyword_settings (keyword, keyword_norm, is_active)
		VALUES ($1, $2, true)
		ON CONFLICT (keyword_norm) DO UPDATE SET
			keyword = EXCLUDED.keyword,
			is_active = true,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query, setting.Keyword, setting.KeywordNorm).
		Scan(&setting.ID, &setting.CreatedAt, &setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert keyword setting: %w", err)
	}
	setting.IsActive = true

	return nil
}

// Deactivate stops a keyword from being crawled without losing its articles.
func (r *KeywordSettingRepository) Deactivate(ctx context.Context, keywordNorm string) error {
	query := `
		UPDATE keyword_settings
		SET is_active = false, updated_at = now()
		WHERE keyword_norm = $1 AND is_active = true
	`

	result, err := r.db.ExecContext(ctx, query, keywordNorm)
	if err != nil {
		return fmt.Errorf("deactivate keyword: %w", err)
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
