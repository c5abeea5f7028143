package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hoehoe5252-yong/yong2/internal/importer"
	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/models"
	"github.com/hoehoe5252-yong/yong2/internal/registry"
)

// CrawlService is the slice of the crawl coordinator the handlers use.
type CrawlService interface {
	RunSource(ctx context.Context, sourceID string) (*models.CrawlRunResult, error)
	RunAll(ctx context.Context) map[string]*models.CrawlRunResult
	RunKeywords(ctx context.Context) (map[string]*models.CrawlRunResult, error)
	ImportBatch(ctx context.Context, candidates []models.Candidate) (*models.CrawlRunResult, error)
}

type CrawlHandler struct {
	service CrawlService
	logger  logger.Logger
}

func NewCrawlHandler(service CrawlService, log logger.Logger) *CrawlHandler {
	return &CrawlHandler{
		service: service,
		logger:  log,
	}
}

type crawlRequest struct {
	SourceID string `json:"source_id" binding:"required"`
}

// Crawl runs one source synchronously and returns the run result.
func (h *CrawlHandler) Crawl(c *gin.Context) {
	var req crawlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.service.RunSource(c.Request.Context(), req.SourceID)
	if errors.Is(err, registry.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}
	if err != nil {
		h.logger.Error("Crawl failed to start",
			logger.String("source_id", req.SourceID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run crawl"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CrawlAll runs every crawlable source and returns a per-source map.
func (h *CrawlHandler) CrawlAll(c *gin.Context) {
	results := h.service.RunAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// CrawlKeywords ingests every active keyword.
func (h *CrawlHandler) CrawlKeywords(c *gin.Context) {
	results, err := h.service.RunKeywords(c.Request.Context())
	if err != nil {
		h.logger.Error("Keyword crawl failed to start", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run keyword crawl"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// ManualImport accepts a JSON seed payload, or an xlsx workbook as a
// multipart file upload, and threads the batch through the regular
// ingestion path.
func (h *CrawlHandler) ManualImport(c *gin.Context) {
	candidates, importErrs, ok := h.decodeImport(c)
	if !ok {
		return
	}

	result, err := h.service.ImportBatch(c.Request.Context(), candidates)
	if err != nil {
		h.logger.Error("Manual import failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"errors": importErrs,
	})
}

func (h *CrawlHandler) decodeImport(c *gin.Context) ([]models.Candidate, []importer.ImportError, bool) {
	contentType := c.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file field"})
			return nil, nil, false
		}
		defer file.Close()

		candidates, importErrs, parseErr := importer.ParseExcel(file, c.PostForm("source_id"))
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workbook", "details": parseErr.Error()})
			return nil, nil, false
		}
		return candidates, importErrs, true
	}

	seed, err := importer.DecodeSeed(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid seed payload", "details": err.Error()})
		return nil, nil, false
	}
	return seed.Candidates(), nil, true
}
