package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hoehoe5252-yong/yong2/internal/keyword"
	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/models"
	"github.com/hoehoe5252-yong/yong2/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ArticleLister reads the article feed.
type ArticleLister interface {
	List(ctx context.Context, filter repository.ListFilter) ([]*models.Article, error)
	Count(ctx context.Context, filter repository.ListFilter) (int, error)
}

// KeywordLister reads the keyword-article feed.
type KeywordLister interface {
	List(ctx context.Context, keywordNorm string, limit, offset int) ([]*models.KeywordArticle, error)
}

// BookmarkService manages the reading list.
type BookmarkService interface {
	Upsert(ctx context.Context, articleID int64, isAuto bool) (*models.Bookmark, error)
	Remove(ctx context.Context, articleID int64) error
	List(ctx context.Context, limit, offset int) ([]*repository.BookmarkedArticle, error)
}

// SourceCatalog lists registered sources.
type SourceCatalog interface {
	List() []models.Source
}

// RunLister reads the crawl-run audit trail.
type RunLister interface {
	ListRecent(ctx context.Context, sourceID string, limit int) ([]*models.CrawlRun, error)
}

type FeedHandler struct {
	articles  ArticleLister
	keywords  KeywordLister
	bookmarks BookmarkService
	catalog   SourceCatalog
	runs      RunLister
	logger    logger.Logger
}

func NewFeedHandler(
	articles ArticleLister,
	keywords KeywordLister,
	bookmarks BookmarkService,
	catalog SourceCatalog,
	runs RunLister,
	log logger.Logger,
) *FeedHandler {
	return &FeedHandler{
		articles:  articles,
		keywords:  keywords,
		bookmarks: bookmarks,
		catalog:   catalog,
		runs:      runs,
		logger:    log,
	}
}

// ListNews returns the article feed. With ?keyword= it returns keyword
// articles instead, so the client has one news endpoint.
func (h *FeedHandler) ListNews(c *gin.Context) {
	limit, offset := pagination(c)

	if kw := c.Query("keyword"); kw != "" {
		articles, err := h.keywords.List(c.Request.Context(), keyword.NormalizeKeyword(kw), limit, offset)
		if err != nil {
			h.logger.Error("Failed to list keyword news", logger.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list news"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
		return
	}

	filter := repository.ListFilter{
		SourceID: c.Query("source"),
		Search:   c.Query("q"),
		Limit:    limit,
		Offset:   offset,
	}

	articles, err := h.articles.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list news", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list news"})
		return
	}

	total, err := h.articles.Count(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to count news", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list news"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"count":    len(articles),
		"total":    total,
	})
}

// ListBookmarks returns active bookmarks with their articles.
func (h *FeedHandler) ListBookmarks(c *gin.Context) {
	limit, offset := pagination(c)

	bookmarks, err := h.bookmarks.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list bookmarks", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookmarks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookmarks": bookmarks, "count": len(bookmarks)})
}

// CreateBookmark bookmarks an article, reviving a removed bookmark.
func (h *FeedHandler) CreateBookmark(c *gin.Context) {
	articleID, ok := articleIDParam(c)
	if !ok {
		return
	}

	bookmark, err := h.bookmarks.Upsert(c.Request.Context(), articleID, false)
	if err != nil {
		h.logger.Error("Failed to create bookmark",
			logger.Int64("article_id", articleID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bookmark"})
		return
	}

	c.JSON(http.StatusCreated, bookmark)
}

// DeleteBookmark soft-removes a bookmark; the row survives for history.
func (h *FeedHandler) DeleteBookmark(c *gin.Context) {
	articleID, ok := articleIDParam(c)
	if !ok {
		return
	}

	err := h.bookmarks.Remove(c.Request.Context(), articleID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to remove bookmark",
			logger.Int64("article_id", articleID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove bookmark"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// ListSources returns the registry catalog in declaration order.
func (h *FeedHandler) ListSources(c *gin.Context) {
	sources := h.catalog.List()
	c.JSON(http.StatusOK, gin.H{"sources": sources, "count": len(sources)})
}

// ListRuns returns recent crawl runs, optionally for one source.
func (h *FeedHandler) ListRuns(c *gin.Context) {
	limit, _ := pagination(c)

	runs, err := h.runs.ListRecent(c.Request.Context(), c.Query("source"), limit)
	if err != nil {
		h.logger.Error("Failed to list crawl runs", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list crawl runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func articleIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("article_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
