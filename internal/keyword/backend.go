// Package keyword ingests keyword-search news through pluggable search
// backends and stores the merged results as keyword articles.
package keyword

import (
	"context"
	"time"

	"github.com/hoehoe5252-yong/yong2/internal/fetch"
)

// Item is one search hit before merging and storage. URL is already
// normalized; Title is the raw headline without the press label.
type Item struct {
	Title       string
	Press       string
	URL         string
	Summary     string
	ImageURL    string
	PublishedAt *time.Time
}

// Backend searches one news provider for a keyword. Implementations are
// stateless; the ingestor runs them in configured order.
type Backend interface {
	Name() string
	Search(ctx context.Context, keyword string) ([]Item, error)
}

// PageFetcher is the slice of the fetcher backends need.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}
