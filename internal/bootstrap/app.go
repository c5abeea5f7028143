// Package bootstrap wires configuration, storage, crawling and the HTTP
// server into a running service.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hoehoe5252-yong/yong2/internal/config"
	"github.com/hoehoe5252-yong/yong2/internal/importer"
	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/registry"
	"github.com/hoehoe5252-yong/yong2/internal/scheduler"
)

const version = "dev"

const (
	staleRunMaxAge  = time.Hour
	shutdownTimeout = 10 * time.Second
)

// Start runs the full application lifecycle and blocks until shutdown.
func Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	log, err := CreateLogger(cfg, version)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting service",
		logger.String("host", cfg.Server.Host),
		logger.Int("port", cfg.Server.Port),
		logger.Bool("debug", cfg.Debug),
	)

	// Phase 2: Setup database
	db, err := SetupDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	// Phase 3: Load the source catalog, optionally watching for edits
	catalog, err := registry.New(cfg.Registry.Path, log)
	if err != nil {
		return fmt.Errorf("load source catalog: %w", err)
	}
	if cfg.Registry.Watch {
		go func() {
			if watchErr := catalog.Watch(ctx); watchErr != nil {
				log.Error("Catalog watcher stopped", logger.Error(watchErr))
			}
		}()
	}

	// Phase 4: Setup event publisher (optional)
	publisher := SetupEventPublisher(ctx, cfg, log)

	// Phase 5: Wire services
	services, err := SetupServices(cfg, db, catalog, publisher, log)
	if err != nil {
		return err
	}

	// Runs left open by a crash would block nothing but would pollute
	// the audit trail, so close them before accepting work.
	if closed, staleErr := services.Runs.FailStaleRuns(ctx, staleRunMaxAge); staleErr != nil {
		log.Warn("Stale run recovery failed", logger.Error(staleErr))
	} else if closed > 0 {
		log.Info("Closed stale crawl runs", logger.Int64("count", closed))
	}

	// Phase 6: Schedule recurring work
	sched, err := setupScheduler(cfg, services, log)
	if err != nil {
		return err
	}
	sched.Start()
	defer stopScheduler(sched, log)

	// Phase 7: Startup tasks run in the background so the API is up
	// while the first crawl is still in flight.
	go runStartupTasks(ctx, cfg, services, log)

	// Phase 8: Setup and run HTTP server
	server := SetupHTTPServer(cfg, services, catalog, log)
	return runServer(ctx, server, log)
}

func setupScheduler(cfg *config.Config, services *Services, log logger.Logger) (*scheduler.Scheduler, error) {
	sched := scheduler.New(log)

	err := sched.Add("crawl-all", cfg.Crawl.Schedule, func(jobCtx context.Context) {
		services.Coordinator.RunAll(jobCtx)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule crawl-all: %w", err)
	}

	err = sched.Add("crawl-keywords", cfg.Keyword.Schedule, func(jobCtx context.Context) {
		if _, runErr := services.Coordinator.RunKeywords(jobCtx); runErr != nil {
			log.Error("Scheduled keyword crawl failed", logger.Error(runErr))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule crawl-keywords: %w", err)
	}

	if services.Pruner.Enabled() {
		err = sched.Add("prune", cfg.Prune.Schedule, func(jobCtx context.Context) {
			if _, pruneErr := services.Pruner.Run(jobCtx); pruneErr != nil {
				log.Error("Scheduled prune failed", logger.Error(pruneErr))
			}
		})
		if err != nil {
			return nil, fmt.Errorf("schedule prune: %w", err)
		}
	}

	return sched, nil
}

func stopScheduler(sched *scheduler.Scheduler, log logger.Logger) {
	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	sched.Stop(stopCtx)
}

// runStartupTasks loads the optional seed file and kicks off the
// configured startup crawls. Failures are logged, never fatal.
func runStartupTasks(ctx context.Context, cfg *config.Config, services *Services, log logger.Logger) {
	if cfg.Startup.SeedFile != "" {
		importSeedFile(ctx, cfg.Startup.SeedFile, services, log)
	}

	for _, sourceID := range cfg.Startup.AutoCrawl {
		result, err := services.Coordinator.RunSource(ctx, sourceID)
		if err != nil {
			log.Error("Startup crawl failed",
				logger.String("source_id", sourceID),
				logger.Error(err),
			)
			continue
		}
		log.Info("Startup crawl finished",
			logger.String("source_id", sourceID),
			logger.String("status", string(result.Status)),
			logger.Int("article_count", result.ArticleCount),
		)
	}
}

func importSeedFile(ctx context.Context, path string, services *Services, log logger.Logger) {
	f, err := os.Open(path)
	if err != nil {
		log.Error("Failed to open seed file",
			logger.String("path", path),
			logger.Error(err),
		)
		return
	}
	defer f.Close()

	seed, err := importer.DecodeSeed(f)
	if err != nil {
		log.Error("Failed to decode seed file",
			logger.String("path", path),
			logger.Error(err),
		)
		return
	}

	result, err := services.Coordinator.ImportBatch(ctx, seed.Candidates())
	if err != nil {
		log.Error("Seed import failed",
			logger.String("path", path),
			logger.Error(err),
		)
		return
	}
	log.Info("Seed file imported",
		logger.String("path", path),
		logger.String("status", string(result.Status)),
		logger.Int("article_count", result.ArticleCount),
	)
}

func runServer(ctx context.Context, server *http.Server, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", logger.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", logger.String("signal", sig.String()))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
