package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
server:
  host: 127.0.0.1
  port: 9000
database:
  host: localhost
  user: yong2
  dbname: yong2
registry:
  path: sources.yaml
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 10*time.Second, cfg.Crawl.FetchTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Crawl.RunTimeout)
	assert.Equal(t, 4, cfg.Crawl.WorkerLimit)
	assert.Equal(t, 30, cfg.Crawl.RecencyDays)
	assert.Equal(t, 200, cfg.Crawl.MaxCandidates)
	assert.Equal(t, 50, cfg.Crawl.MaxInserts)
	assert.Equal(t, 30, cfg.Keyword.WindowDays)
	assert.Equal(t, []string{"google"}, cfg.Keyword.Backends)
	assert.Equal(t, 90, cfg.Prune.RetentionDays)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8123")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("CRAWL_FETCH_TIMEOUT", "3s")
	t.Setenv("REDIS_EVENTS_ENABLED", "true")
	t.Setenv("KEYWORD_BACKENDS", "google, naver")
	t.Setenv("CORS_ORIGINS", "https://app.example.com")

	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 3*time.Second, cfg.Crawl.FetchTimeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"google", "naver"}, cfg.Keyword.Backends)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORSOrigins)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "missing server host",
			mutate:  func(c *Config) { c.Server.Host = "" },
			wantErr: "server.host",
		},
		{
			name:    "missing database user",
			mutate:  func(c *Config) { c.Database.User = "" },
			wantErr: "database.user",
		},
		{
			name:    "missing registry path",
			mutate:  func(c *Config) { c.Registry.Path = "" },
			wantErr: "registry.path",
		},
		{
			name:    "zero worker limit",
			mutate:  func(c *Config) { c.Crawl.WorkerLimit = 0 },
			wantErr: "worker_limit",
		},
		{
			name:    "negative retention",
			mutate:  func(c *Config) { c.Prune.RetentionDays = -1 },
			wantErr: "retention_days",
		},
		{
			name:    "unknown keyword backend",
			mutate:  func(c *Config) { c.Keyword.Backends = []string{"bing"} },
			wantErr: "unknown backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, minimalYAML))
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPruneExplicitlyDisabled(t *testing.T) {
	t.Setenv("PRUNE_RETENTION_DAYS", "0")

	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Prune.RetentionDays)
}
