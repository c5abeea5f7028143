// Package importer decodes manual-import payloads (JSON seed files and
// Excel sheets) into candidates for the crawl pipeline.
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hoehoe5252-yong/yong2/internal/extract"
	"github.com/hoehoe5252-yong/yong2/internal/models"
)

// Seed is a manual-import batch, typically exported by hand from a
// board that cannot be crawled automatically.
type Seed struct {
	GeneratedAt time.Time     `json:"generated_at"`
	SourceID    string        `json:"source_id"`
	StartURL    string        `json:"start_url"`
	Articles    []SeedArticle `json:"articles"`
}

// SeedArticle is one article of a seed batch. PublishedAt accepts
// either a bare date (2026-08-01) or RFC 3339.
type SeedArticle struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Summary     string   `json:"summary,omitempty"`
	Author      string   `json:"author,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	PublishedAt string   `json:"published_at,omitempty"`
}

// DecodeSeed reads and validates a JSON seed payload.
func DecodeSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	dec := json.NewDecoder(r)
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if len(seed.Articles) == 0 {
		return nil, fmt.Errorf("seed has no articles")
	}
	return &seed, nil
}

// Candidates converts the seed into pipeline candidates with normalized
// URLs. Rows without a title or URL are kept; the import run counts
// them as failures so the operator sees them.
func (s *Seed) Candidates() []models.Candidate {
	sourceID := s.SourceID
	if sourceID == "" {
		sourceID = models.ManualImportSourceID
	}

	out := make([]models.Candidate, 0, len(s.Articles))
	for _, a := range s.Articles {
		out = append(out, models.Candidate{
			SourceID:    sourceID,
			Title:       strings.TrimSpace(a.Title),
			URL:         extract.NormalizeURL(a.URL),
			Summary:     strings.TrimSpace(a.Summary),
			Author:      strings.TrimSpace(a.Author),
			ImageURL:    strings.TrimSpace(a.ImageURL),
			Tags:        a.Tags,
			PublishedAt: parseSeedDate(a.PublishedAt),
		})
	}
	return out
}

func parseSeedDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			day := t.UTC().Truncate(24 * time.Hour)
			return &day
		}
	}
	return extract.ParseDateText(raw)
}
