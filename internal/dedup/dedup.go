// Package dedup decides whether a candidate article is new, a duplicate,
// or an update of a stored article.
//
// Classification runs against a snapshot of existing articles taken at
// the start of a source's run. Accepted inserts extend the snapshot, so
// two same-URL candidates inside one run resolve deterministically by
// list order: the first is New, the rest Duplicate.
package dedup

import (
	"time"

	"github.com/hoehoe5252-yong/yong2/internal/extract"
	"github.com/hoehoe5252-yong/yong2/internal/models"
)

// Decision classifies a candidate against the existing set.
type Decision int

const (
	// New means no stored article matches; the candidate should be inserted.
	New Decision = iota

	// Duplicate means a stored article already covers the candidate.
	Duplicate

	// Update means a stored article matches by URL but the candidate
	// carries fields the stored row lacks.
	Update
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case New:
		return "new"
	case Duplicate:
		return "duplicate"
	case Update:
		return "update"
	default:
		return "unknown"
	}
}

// DefaultTitleWindow bounds title-based duplicate detection: a stored
// article older than this no longer blocks a same-title candidate.
// Defends against sources republishing an article under a fresh tracking
// URL within days of the original.
const DefaultTitleWindow = 72 * time.Hour

// Index is a classification snapshot. Not safe for concurrent use; each
// source run owns its own index.
type Index struct {
	byURL       map[string]*models.Article
	byTitle     map[string]*models.Article
	titleWindow time.Duration
}

// NewIndex builds a snapshot from the stored articles visible at run
// start.
func NewIndex(existing []*models.Article, titleWindow time.Duration) *Index {
	if titleWindow <= 0 {
		titleWindow = DefaultTitleWindow
	}
	ix := &Index{
		byURL:       make(map[string]*models.Article, len(existing)),
		byTitle:     make(map[string]*models.Article, len(existing)),
		titleWindow: titleWindow,
	}
	for _, a := range existing {
		ix.Add(a)
	}
	return ix
}

// Add extends the snapshot with an accepted article, typically one just
// inserted during the same run.
func (ix *Index) Add(a *models.Article) {
	if a == nil {
		return
	}
	ix.byURL[extract.NormalizeURL(a.URL)] = a
	ix.byTitle[titleKey(a.SourceID, a.Title)] = a
}

// Classify returns the decision for a candidate and the matching stored
// article for Duplicate/Update. The rule is total and deterministic:
//
//  1. exact normalized-URL match: Duplicate, or Update when the
//     candidate fills a previously empty field;
//  2. same-source normalized-title match within the title window: Duplicate;
//  3. otherwise New.
func (ix *Index) Classify(c models.Candidate, now time.Time) (Decision, *models.Article) {
	if existing, ok := ix.byURL[c.URL]; ok {
		if fillsMissingField(existing, c) {
			return Update, existing
		}
		return Duplicate, existing
	}

	if existing, ok := ix.byTitle[titleKey(c.SourceID, c.Title)]; ok {
		if ix.withinTitleWindow(existing, now) {
			return Duplicate, existing
		}
	}

	return New, nil
}

func (ix *Index) withinTitleWindow(a *models.Article, now time.Time) bool {
	if a.CreatedAt.IsZero() {
		// Inserted during this run; always current.
		return true
	}
	return now.Sub(a.CreatedAt) <= ix.titleWindow
}

func titleKey(sourceID, title string) string {
	return sourceID + "\x00" + extract.NormalizeTitle(title)
}

// fillsMissingField reports whether the candidate carries data for any
// field the stored article has empty.
func fillsMissingField(a *models.Article, c models.Candidate) bool {
	switch {
	case a.Summary == "" && c.Summary != "":
		return true
	case a.Content == "" && c.Content != "":
		return true
	case a.ImageURL == "" && c.ImageURL != "":
		return true
	case a.Author == "" && c.Author != "":
		return true
	case len(a.Tags) == 0 && len(c.Tags) > 0:
		return true
	case a.PublishedAt == nil && c.PublishedAt != nil:
		return true
	default:
		return false
	}
}

// Merge applies a candidate to a stored article, filling only empty
// fields. Non-empty stored data is never overwritten, so a partial
// re-crawl cannot null out earlier enrichment. Returns whether anything
// changed.
func Merge(a *models.Article, c models.Candidate) bool {
	changed := false
	if a.Summary == "" && c.Summary != "" {
		a.Summary = c.Summary
		changed = true
	}
	if a.Content == "" && c.Content != "" {
		a.Content = c.Content
		changed = true
	}
	if a.ImageURL == "" && c.ImageURL != "" {
		a.ImageURL = c.ImageURL
		changed = true
	}
	if a.Author == "" && c.Author != "" {
		a.Author = c.Author
		changed = true
	}
	if len(a.Tags) == 0 && len(c.Tags) > 0 {
		a.Tags = models.StringArray(c.Tags)
		changed = true
	}
	if a.PublishedAt == nil && c.PublishedAt != nil {
		a.PublishedAt = c.PublishedAt
		changed = true
	}
	return changed
}
