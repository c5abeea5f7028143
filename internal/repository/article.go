package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/models"
)

type ArticleRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewArticleRepository(db *sql.DB, log logger.Logger) *ArticleRepository {
	return &ArticleRepository{
		db:     db,
		logger: log,
	}
}

const articleColumns = `id, source_id, title, url, content, summary, tags,
       author, image_url, published_at, created_at`

// Insert stores a new article and fills ID and CreatedAt. A unique
// violation on url comes back as ErrDuplicateURL.
func (r *ArticleRepository) Insert(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (
			source_id, title, url, content, summary, tags,
			author, image_url, published_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx,
		query,
		article.SourceID,
		article.Title,
		article.URL,
		article.Content,
		article.Summary,
		article.Tags,
		article.Author,
		article.ImageURL,
		article.PublishedAt,
	).Scan(&article.ID, &article.CreatedAt)

	if isUniqueViolation(err) {
		return ErrDuplicateURL
	}
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	return nil
}

// Update persists the mutable article fields after a merge.
func (r *ArticleRepository) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles
		SET content = $2, summary = $3, tags = $4, author = $5,
		    image_url = $6, published_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx,
		query,
		article.ID,
		article.Content,
		article.Summary,
		article.Tags,
		article.Author,
		article.ImageURL,
		article.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
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

func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query article: %w", err)
	}
	return article, nil
}

func (r *ArticleRepository) GetByURL(ctx context.Context, url string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE url = $1`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query article: %w", err)
	}
	return article, nil
}

// ListRecentBySource returns the source's articles created at or after
// since, the snapshot a crawl run classifies candidates against.
func (r *ArticleRepository) ListRecentBySource(ctx context.Context, sourceID string, since time.Time) ([]*models.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE source_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, sourceID, since)
	if err != nil {
		return nil, fmt.Errorf("query recent articles: %w", err)
	}
	defer rows.Close()

	return scanArticleRows(rows)
}

// ListFilter holds pagination and filter params for List.
type ListFilter struct {
	SourceID string // empty = all sources
	Search   string // ILIKE on title or summary
	Limit    int
	Offset   int
}

// List returns the feed: newest first by published date, then by
// insertion time for undated rows.
func (r *ArticleRepository) List(ctx context.Context, filter ListFilter) ([]*models.Article, error) {
	whereClause, whereArgs := buildArticleWhere(filter)
	argCount := len(whereArgs)
	limitPlaceholder := strconv.Itoa(argCount + 1)
	offsetPlaceholder := strconv.Itoa(argCount + 2)
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE 1=1` + whereClause + `
		ORDER BY published_at DESC NULLS LAST, created_at DESC, id DESC
		LIMIT $` + limitPlaceholder + ` OFFSET $` + offsetPlaceholder

	args := append(append([]any{}, whereArgs...), filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	return scanArticleRows(rows)
}

// Count returns the total number of articles matching the filter.
func (r *ArticleRepository) Count(ctx context.Context, filter ListFilter) (int, error) {
	whereClause, args := buildArticleWhere(filter)
	query := `SELECT COUNT(*) FROM articles WHERE 1=1` + whereClause

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// DeleteUnbookmarkedBefore removes articles created strictly before the
// cutoff that have no active bookmark. The boundary row survives.
func (r *ArticleRepository) DeleteUnbookmarkedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM articles
		WHERE created_at < $1
		  AND id NOT IN (
			SELECT article_id FROM bookmarks WHERE removed_at IS NULL
		  )
	`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune articles: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return deleted, nil
}

func buildArticleWhere(filter ListFilter) (whereClause string, args []any) {
	var clauses []string
	args = make([]any, 0)
	pos := 1

	if filter.SourceID != "" {
		clauses = append(clauses, fmt.Sprintf("source_id = $%d", pos))
		args = append(args, filter.SourceID)
		pos++
	}
	if filter.Search != "" {
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR summary ILIKE $%d)", pos, pos))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article
	err := row.Scan(
		&article.ID,
		&article.SourceID,
		&article.Title,
		&article.URL,
		&article.Content,
		&article.Summary,
		&article.Tags,
		&article.Author,
		&article.ImageURL,
		&article.PublishedAt,
		&article.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func scanArticleRows(rows *sql.Rows) ([]*models.Article, error) {
	articles := make([]*models.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, nil
}
