// Package config loads service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultServerPort      = 8060
	defaultServerTimeout   = 30 * time.Second
	defaultDatabasePort    = 5432
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultRedisAddress    = "localhost:6379"

	defaultFetchTimeout      = 10 * time.Second
	defaultMaxBodyBytes      = 4 << 20 // 4 MiB
	defaultRunTimeout        = 5 * time.Minute
	defaultWorkerLimit       = 4
	defaultDetailWorkers     = 2
	defaultRecencyDays       = 30
	defaultMaxCandidates     = 200
	defaultMaxInserts        = 50
	defaultKeywordWindowDays = 30
	defaultKeywordMaxItems   = 30
	defaultRetentionDays     = 90
)

type Config struct {
	Debug    bool           `env:"APP_DEBUG"    yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Registry RegistryConfig `yaml:"registry"`
	Crawl    CrawlConfig    `yaml:"crawl"`
	Keyword  KeywordConfig  `yaml:"keyword"`
	Prune    PruneConfig    `yaml:"prune"`
	Startup  StartupConfig  `yaml:"startup"`
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST" yaml:"host"`
	Port         int           `env:"SERVER_PORT" yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST"     yaml:"host"`
	Port            int           `env:"DB_PORT"     yaml:"port"`
	User            string        `env:"DB_USER"     yaml:"user"`
	Password        string        `env:"DB_PASSWORD" yaml:"password"`
	DBName          string        `env:"DB_NAME"     yaml:"dbname"`
	SSLMode         string        `env:"DB_SSLMODE"  yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig holds Redis connection configuration for crawl-run event
// publishing. Disabled by default.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"        yaml:"address"`
	Password string `env:"REDIS_PASSWORD"       yaml:"password"`
	DB       int    `env:"REDIS_DB"             yaml:"db"`
	Enabled  bool   `env:"REDIS_EVENTS_ENABLED" yaml:"enabled"`
}

// RegistryConfig locates the declarative source catalog.
type RegistryConfig struct {
	Path  string `env:"SOURCES_PATH" yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// CrawlConfig bounds a single crawl run.
type CrawlConfig struct {
	FetchTimeout  time.Duration `env:"CRAWL_FETCH_TIMEOUT" yaml:"fetch_timeout"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	RunTimeout    time.Duration `env:"CRAWL_RUN_TIMEOUT" yaml:"run_timeout"`
	WorkerLimit   int           `env:"CRAWL_WORKER_LIMIT" yaml:"worker_limit"`
	DetailWorkers int           `yaml:"detail_workers"`
	RecencyDays   int           `yaml:"recency_days"`
	MaxCandidates int           `yaml:"max_candidates"`
	MaxInserts    int           `yaml:"max_inserts"`
	Schedule      string        `env:"CRAWL_SCHEDULE" yaml:"schedule"`
}

// KeywordConfig controls keyword-news ingestion.
type KeywordConfig struct {
	WindowDays int      `env:"KEYWORD_WINDOW_DAYS" yaml:"window_days"`
	MaxItems   int      `env:"KEYWORD_MAX_ITEMS"   yaml:"max_items"`
	Backends   []string `env:"KEYWORD_BACKENDS"    yaml:"backends"`
	Schedule   string   `env:"KEYWORD_SCHEDULE"    yaml:"schedule"`
}

// PruneConfig controls retention pruning. RetentionDays 0 disables pruning.
type PruneConfig struct {
	RetentionDays int    `env:"PRUNE_RETENTION_DAYS" yaml:"retention_days"`
	Schedule      string `env:"PRUNE_SCHEDULE"       yaml:"schedule"`
}

// StartupConfig controls work done once at process start.
type StartupConfig struct {
	AutoCrawl []string `env:"STARTUP_AUTO_CRAWL" yaml:"auto_crawl"`
	SeedFile  string   `env:"STARTUP_SEED_FILE"  yaml:"seed_file"`
}

func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	// Env always wins, including over defaults.
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if c.Server.Port <= 0 {
		return errors.New("server.port is required and must be positive")
	}
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.Registry.Path == "" {
		return errors.New("registry.path is required")
	}
	if c.Crawl.WorkerLimit <= 0 {
		return errors.New("crawl.worker_limit must be positive")
	}
	if c.Prune.RetentionDays < 0 {
		return errors.New("prune.retention_days must not be negative")
	}
	for _, b := range c.Keyword.Backends {
		if b != "google" && b != "naver" {
			return fmt.Errorf("keyword.backends: unknown backend %q", b)
		}
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDatabasePort
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = defaultConnMaxLifetime
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Registry.Path == "" {
		cfg.Registry.Path = "sources.yaml"
	}
	if cfg.Crawl.FetchTimeout == 0 {
		cfg.Crawl.FetchTimeout = defaultFetchTimeout
	}
	if cfg.Crawl.MaxBodyBytes == 0 {
		cfg.Crawl.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Crawl.RunTimeout == 0 {
		cfg.Crawl.RunTimeout = defaultRunTimeout
	}
	if cfg.Crawl.WorkerLimit == 0 {
		cfg.Crawl.WorkerLimit = defaultWorkerLimit
	}
	if cfg.Crawl.DetailWorkers == 0 {
		cfg.Crawl.DetailWorkers = defaultDetailWorkers
	}
	if cfg.Crawl.RecencyDays == 0 {
		cfg.Crawl.RecencyDays = defaultRecencyDays
	}
	if cfg.Crawl.MaxCandidates == 0 {
		cfg.Crawl.MaxCandidates = defaultMaxCandidates
	}
	if cfg.Crawl.MaxInserts == 0 {
		cfg.Crawl.MaxInserts = defaultMaxInserts
	}
	if cfg.Keyword.WindowDays == 0 {
		cfg.Keyword.WindowDays = defaultKeywordWindowDays
	}
	if cfg.Keyword.MaxItems == 0 {
		cfg.Keyword.MaxItems = defaultKeywordMaxItems
	}
	if len(cfg.Keyword.Backends) == 0 {
		cfg.Keyword.Backends = []string{"google"}
	}
	if cfg.Prune.RetentionDays == 0 && !pruneExplicitlyDisabled(cfg) {
		cfg.Prune.RetentionDays = defaultRetentionDays
	}
}

// pruneExplicitlyDisabled reports whether retention was set to 0 on purpose
// via environment (the YAML zero value is indistinguishable from absent, so
// opting out of pruning requires PRUNE_RETENTION_DAYS=0).
func pruneExplicitlyDisabled(*Config) bool {
	return os.Getenv("PRUNE_RETENTION_DAYS") == "0"
}
