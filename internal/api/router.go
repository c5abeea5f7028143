// Package api assembles the gin router.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hoehoe5252-yong/yong2/internal/handlers"
	"github.com/hoehoe5252-yong/yong2/internal/logger"
)

const corsMaxAgeHours = 12

// Deps are the handler dependencies the router wires up.
type Deps struct {
	Crawl            handlers.CrawlService
	Articles         handlers.ArticleLister
	Keywords         handlers.KeywordLister
	KeywordSettings  handlers.KeywordSettingsService
	KeywordBookmarks handlers.KeywordBookmarkService
	Bookmarks        handlers.BookmarkService
	Catalog          handlers.SourceCatalog
	Runs             handlers.RunLister
}

func NewRouter(deps Deps, corsOrigins []string, log logger.Logger) *gin.Engine {
	router := gin.New()

	// CORS middleware - must be first
	router.Use(cors.New(corsConfig(corsOrigins)))

	// Middleware
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	crawlHandler := handlers.NewCrawlHandler(deps.Crawl, log)
	feedHandler := handlers.NewFeedHandler(
		deps.Articles, deps.Keywords, deps.Bookmarks, deps.Catalog, deps.Runs, log,
	)
	keywordHandler := handlers.NewKeywordHandler(deps.KeywordSettings, deps.KeywordBookmarks, log)

	v1 := router.Group("/api/v1")

	v1.POST("/crawl", crawlHandler.Crawl)
	v1.POST("/crawl-all", crawlHandler.CrawlAll)
	v1.POST("/crawl-keywords", crawlHandler.CrawlKeywords)
	v1.POST("/manual-import", crawlHandler.ManualImport)

	v1.GET("/news", feedHandler.ListNews)
	v1.GET("/sources", feedHandler.ListSources)
	v1.GET("/crawl-runs", feedHandler.ListRuns)

	bookmarks := v1.Group("/bookmarks")
	bookmarks.GET("", feedHandler.ListBookmarks)
	bookmarks.POST("/:article_id", feedHandler.CreateBookmark)
	bookmarks.DELETE("/:article_id", feedHandler.DeleteBookmark)

	v1.GET("/keywords", keywordHandler.ListKeywords)
	v1.POST("/keywords", keywordHandler.CreateKeyword)
	v1.DELETE("/keywords/:keyword_norm", keywordHandler.DeleteKeyword)

	keywordBookmarks := v1.Group("/keyword-bookmarks")
	keywordBookmarks.POST("/:keyword_article_id", keywordHandler.CreateKeywordBookmark)
	keywordBookmarks.DELETE("/:keyword_article_id", keywordHandler.DeleteKeywordBookmark)

	return router
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding",
			"X-CSRF-Token", "Authorization", "accept", "origin",
			"Cache-Control", "X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeHours * time.Hour,
	}
}

func ginLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		log.Info("HTTP request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status_code", statusCode),
			logger.String("client_ip", c.ClientIP()),
			logger.Duration("duration", duration),
		)
	}
}
