package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ManualImportSourceID is the synthetic source recorded for articles that
// arrive through the manual import path without a catalog source.
const ManualImportSourceID = "manual_import"

// Article is a stored article from a catalog source.
type Article struct {
	ID          int64       `json:"id"           db:"id"`
	SourceID    string      `json:"source_id"    db:"source_id"`
	Title       string      `json:"title"        db:"title"`
	URL         string      `json:"url"          db:"url"`
	Content     string      `json:"content"      db:"content"`
	Summary     string      `json:"summary"      db:"summary"`
	Tags        StringArray `json:"tags"         db:"tags"`
	Author      string      `json:"author"       db:"author"`
	ImageURL    string      `json:"image_url"    db:"image_url"`
	PublishedAt *time.Time  `json:"published_at" db:"published_at"`
	CreatedAt   time.Time   `json:"created_at"   db:"created_at"`
}

// KeywordArticle is an article discovered through keyword search. It lives
// in its own table so the default feed can exclude keyword news entirely.
type KeywordArticle struct {
	ID          int64      `json:"id"           db:"id"`
	Keyword     string     `json:"keyword"      db:"keyword"`
	KeywordNorm string     `json:"keyword_norm" db:"keyword_norm"`
	Title       string     `json:"title"        db:"title"`
	URL         string     `json:"url"          db:"url"`
	Summary     string     `json:"summary"      db:"summary"`
	ImageURL    string     `json:"image_url"    db:"image_url"`
	PublishedAt *time.Time `json:"published_at" db:"published_at"`
	CreatedAt   time.Time  `json:"created_at"   db:"created_at"`
}

// Bookmark references an Article. Removal is a soft delete: RemovedAt set,
// row kept, so read-history stays queryable.
type Bookmark struct {
	ID        int64      `json:"id"         db:"id"`
	ArticleID int64      `json:"article_id" db:"article_id"`
	IsAuto    bool       `json:"is_auto"    db:"is_auto"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	RemovedAt *time.Time `json:"removed_at" db:"removed_at"`
}

// Candidate is an article extracted from a fetch, before the dedup and
// storage decision. URL is already normalized.
type Candidate struct {
	SourceID    string
	Title       string
	URL         string
	Content     string
	Summary     string
	Tags        []string
	Author      string
	ImageURL    string
	PublishedAt *time.Time
}

// Article converts the candidate into a storable article.
func (c Candidate) Article() *Article {
	return &Article{
		SourceID:    c.SourceID,
		Title:       c.Title,
		URL:         c.URL,
		Content:     c.Content,
		Summary:     c.Summary,
		Tags:        StringArray(c.Tags),
		Author:      c.Author,
		ImageURL:    c.ImageURL,
		PublishedAt: c.PublishedAt,
	}
}

// StringArray stores an ordered list of strings as JSON in a single column.
// An empty array values as NULL.
type StringArray []string

// Value implements driver.Valuer for database storage.
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval.
func (a *StringArray) Scan(value any) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, a)
}
