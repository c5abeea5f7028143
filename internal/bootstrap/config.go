package bootstrap

import (
	"flag"
	"fmt"
	"os"

	"github.com/hoehoe5252-yong/yong2/internal/config"
	"github.com/hoehoe5252-yong/yong2/internal/logger"
)

// LoadConfig loads configuration. The -config flag selects the file;
// CONFIG_PATH overrides the default when the flag is absent.
func LoadConfig() (*config.Config, error) {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "config.yml"
	}
	configPath := flag.String("config", defaultPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// CreateLogger creates the service logger from configuration.
func CreateLogger(cfg *config.Config, version string) (logger.Logger, error) {
	log, err := logger.New(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		logger.String("service", "yong2"),
		logger.String("version", version),
	), nil
}
