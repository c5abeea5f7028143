package bootstrap

import (
	"fmt"

	"github.com/hoehoe5252-yong/yong2/internal/config"
	"github.com/hoehoe5252-yong/yong2/internal/crawl"
	"github.com/hoehoe5252-yong/yong2/internal/database"
	"github.com/hoehoe5252-yong/yong2/internal/events"
	"github.com/hoehoe5252-yong/yong2/internal/fetch"
	"github.com/hoehoe5252-yong/yong2/internal/keyword"
	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/prune"
	"github.com/hoehoe5252-yong/yong2/internal/registry"
	"github.com/hoehoe5252-yong/yong2/internal/repository"
)

// Services holds the wired application services.
type Services struct {
	Articles        *repository.ArticleRepository
	KeywordArticles *repository.KeywordArticleRepository
	KeywordSettings *repository.KeywordSettingRepository
	Bookmarks       *repository.BookmarkRepository
	Runs            *repository.CrawlRunRepository
	Coordinator     *crawl.Coordinator
	Pruner          *prune.Pruner
}

// SetupServices wires repositories, the fetcher, keyword backends and
// the crawl coordinator.
func SetupServices(
	cfg *config.Config,
	db *database.DB,
	catalog *registry.Registry,
	publisher *events.Publisher,
	log logger.Logger,
) (*Services, error) {
	articles := repository.NewArticleRepository(db.DB(), log)
	keywordArticles := repository.NewKeywordArticleRepository(db.DB(), log)
	keywordSettings := repository.NewKeywordSettingRepository(db.DB(), log)
	bookmarks := repository.NewBookmarkRepository(db.DB(), log)
	runs := repository.NewCrawlRunRepository(db.DB(), log)

	fetcher := fetch.New(cfg.Crawl.FetchTimeout, cfg.Crawl.MaxBodyBytes, log)

	backends, err := keywordBackends(cfg.Keyword.Backends, fetcher)
	if err != nil {
		return nil, err
	}

	ingestor := keyword.NewIngestor(
		backends,
		keywordArticles,
		bookmarks,
		cfg.Keyword.WindowDays,
		cfg.Keyword.MaxItems,
		log,
	)

	coordinator := crawl.NewCoordinator(
		fetcher,
		catalog,
		articles,
		runs,
		ingestor,
		keywordSettings,
		publisher,
		cfg.Crawl,
		log,
	)

	pruner := prune.New(articles, keywordArticles, cfg.Prune.RetentionDays, log)

	return &Services{
		Articles:        articles,
		KeywordArticles: keywordArticles,
		KeywordSettings: keywordSettings,
		Bookmarks:       bookmarks,
		Runs:            runs,
		Coordinator:     coordinator,
		Pruner:          pruner,
	}, nil
}

func keywordBackends(names []string, fetcher *fetch.Fetcher) ([]keyword.Backend, error) {
	backends := make([]keyword.Backend, 0, len(names))
	for _, name := range names {
		switch name {
		case "google":
			backends = append(backends, keyword.NewGoogleBackend(fetcher))
		case "naver":
			backends = append(backends, keyword.NewNaverBackend(fetcher))
		default:
			return nil, fmt.Errorf("unknown keyword backend %q", name)
		}
	}
	return backends, nil
}
