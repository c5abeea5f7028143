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

// KeywordSettingsService manages the set of crawled keywords.
type KeywordSettingsService interface {
	ListActive(ctx context.Context) ([]*models.KeywordSetting, error)
	Upsert(ctx context.Context, setting *models.KeywordSetting) error
	Deactivate(ctx context.Context, keywordNorm string) error
}

// KeywordBookmarkService toggles keyword-article bookmarks.
type KeywordBookmarkService interface {
	UpsertKeyword(ctx context.Context, keywordArticleID int64) error
	RemoveKeyword(ctx context.Context, keywordArticleID int64) error
}

type KeywordHandler struct {
	settings  KeywordSettingsService
	bookmarks KeywordBookmarkService
	logger    logger.Logger
}

func NewKeywordHandler(settings KeywordSettingsService, bookmarks KeywordBookmarkService, log logger.Logger) *KeywordHandler {
	return &KeywordHandler{
		settings:  settings,
		bookmarks: bookmarks,
		logger:    log,
	}
}

// ListKeywords returns the active keywords in registration order.
func (h *KeywordHandler) ListKeywords(c *gin.Context) {
	settings, err := h.settings.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list keywords", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list keywords"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"keywords": settings, "count": len(settings)})
}

type keywordRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}

// CreateKeyword registers a keyword for the keyword crawl, reactivating
// it when it was deactivated before.
func (h *KeywordHandler) CreateKeyword(c *gin.Context) {
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	norm := keyword.NormalizeKeyword(req.Keyword)
	if norm == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword must not be blank"})
		return
	}

	setting := &models.KeywordSetting{Keyword: req.Keyword, KeywordNorm: norm}
	if err := h.settings.Upsert(c.Request.Context(), setting); err != nil {
		h.logger.Error("Failed to register keyword",
			logger.String("keyword", req.Keyword),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register keyword"})
		return
	}

	c.JSON(http.StatusCreated, setting)
}

// DeleteKeyword deactivates a keyword. Its articles stay stored.
func (h *KeywordHandler) DeleteKeyword(c *gin.Context) {
	norm := keyword.NormalizeKeyword(c.Param("keyword_norm"))

	err := h.settings.Deactivate(c.Request.Context(), norm)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Keyword not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to deactivate keyword",
			logger.String("keyword_norm", norm),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate keyword"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// CreateKeywordBookmark bookmarks a keyword article, reviving a removed
// bookmark.
func (h *KeywordHandler) CreateKeywordBookmark(c *gin.Context) {
	id, ok := keywordArticleIDParam(c)
	if !ok {
		return
	}

	if err := h.bookmarks.UpsertKeyword(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to bookmark keyword article",
			logger.Int64("keyword_article_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bookmark"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"keyword_article_id": id})
}

// DeleteKeywordBookmark soft-removes a keyword-article bookmark.
func (h *KeywordHandler) DeleteKeywordBookmark(c *gin.Context) {
	id, ok := keywordArticleIDParam(c)
	if !ok {
		return
	}

	err := h.bookmarks.RemoveKeyword(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to remove keyword bookmark",
			logger.Int64("keyword_article_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove bookmark"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func keywordArticleIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("keyword_article_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid keyword article id"})
		return 0, false
	}
	return id, true
}
