// Package registry loads and serves the declarative source catalog.
//
// The catalog is a YAML file mapping stable source ids to fetch/parse
// rules. The registry is the owned, injectable form of that catalog:
// loaded once at startup, swapped atomically on reload, and never
// partially visible to callers.
package registry

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hoehoe5252-yong/yong2/internal/logger"
	"github.com/hoehoe5252-yong/yong2/internal/models"
)

// ErrNotFound is returned by Get for an unknown source id.
var ErrNotFound = errors.New("source not found")

// ValidationError describes why the catalog was rejected. A catalog is
// either entirely valid or the previous catalog stays in effect.
type ValidationError struct {
	SourceID string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.SourceID == "" {
		return fmt.Sprintf("invalid source catalog: %s", e.Reason)
	}
	return fmt.Sprintf("invalid source %q: %s", e.SourceID, e.Reason)
}

type catalogFile struct {
	Sources []models.Source `yaml:"sources"`
}

// Registry holds the current source catalog.
type Registry struct {
	path   string
	logger logger.Logger

	mu      sync.RWMutex
	byID    map[string]models.Source
	ordered []models.Source
}

// New creates a registry and performs the initial load. A load failure at
// startup is fatal to the caller: the process must not serve an empty or
// partial catalog.
func New(path string, log logger.Logger) (*Registry, error) {
	r := &Registry{
		path:   path,
		logger: log,
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the catalog file. On success the new mapping replaces
// the old one atomically; on failure the previous mapping is retained and
// the error returned.
func (r *Registry) Reload() error {
	sources, err := loadCatalog(r.path)
	if err != nil {
		return err
	}

	byID := make(map[string]models.Source, len(sources))
	for _, s := range sources {
		byID[s.ID] = s
	}

	r.mu.Lock()
	r.byID = byID
	r.ordered = sources
	r.mu.Unlock()

	r.logger.Info("Source catalog loaded",
		logger.String("path", r.path),
		logger.Int("sources", len(sources)),
	)
	return nil
}

// Get returns the source with the given id or ErrNotFound.
func (r *Registry) Get(id string) (models.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return models.Source{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// List returns all sources in declaration order.
func (r *Registry) List() []models.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Source, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ListCrawlable returns sources in declaration order, excluding those
// flagged manual-only.
func (r *Registry) ListCrawlable() []models.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Source, 0, len(r.ordered))
	for _, s := range r.ordered {
		if s.Rules.ManualOnly {
			continue
		}
		out = append(out, s)
	}
	return out
}

func loadCatalog(path string) ([]models.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source catalog %s: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse source catalog: %w", err)
	}

	if err := validate(file.Sources); err != nil {
		return nil, err
	}
	return file.Sources, nil
}

func validate(sources []models.Source) error {
	if len(sources) == 0 {
		return &ValidationError{Reason: "catalog declares no sources"}
	}

	seen := make(map[string]bool, len(sources))
	for _, s := range sources {
		if s.ID == "" {
			return &ValidationError{Reason: "source with empty id"}
		}
		if seen[s.ID] {
			return &ValidationError{SourceID: s.ID, Reason: "duplicate id"}
		}
		seen[s.ID] = true

		if s.Name == "" {
			return &ValidationError{SourceID: s.ID, Reason: "name is required"}
		}
		if !s.Type.Valid() {
			return &ValidationError{SourceID: s.ID, Reason: fmt.Sprintf("unknown type %q", s.Type)}
		}
		if len(s.StartURLs) == 0 {
			return &ValidationError{SourceID: s.ID, Reason: "start_urls is required"}
		}
		for _, raw := range s.StartURLs {
			if err := checkAbsoluteURL(raw); err != nil {
				return &ValidationError{SourceID: s.ID, Reason: err.Error()}
			}
		}
		if s.Type == models.SourceTypeHTMLList && s.Rules.LinkPattern == "" {
			return &ValidationError{SourceID: s.ID, Reason: "html_list source requires rules.link_pattern"}
		}
	}
	return nil
}

func checkAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("start_url %q is not a valid URL", raw)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("start_url %q must be an absolute http(s) URL", raw)
	}
	return nil
}
