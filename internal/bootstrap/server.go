package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/hoehoe5252-yong/yong2/internal/api"
	"github.com/hoehoe5252-yong/yong2/internal/config"
	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/registry"
)

// SetupHTTPServer assembles the router and HTTP server.
func SetupHTTPServer(
	cfg *config.Config,
	services *Services,
	catalog *registry.Registry,
	log logger.Logger,
) *http.Server {
	router := api.NewRouter(api.Deps{
		Crawl:            services.Coordinator,
		Articles:         services.Articles,
		Keywords:         services.KeywordArticles,
		KeywordSettings:  services.KeywordSettings,
		KeywordBookmarks: services.Bookmarks,
		Bookmarks:        services.Bookmarks,
		Catalog:          catalog,
		Runs:             services.Runs,
	}, cfg.Server.CORSOrigins, log)

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
