package models

// SourceType selects the extraction strategy for a source.
type SourceType string

const (
	SourceTypeHTMLList SourceType = "html_list"
	SourceTypeRSS      SourceType = "rss"
)

// Valid reports whether the type is one of the known variants.
func (t SourceType) Valid() bool {
	return t == SourceTypeHTMLList || t == SourceTypeRSS
}

// Source is one entry of the declarative source catalog.
type Source struct {
	ID        string      `json:"id"         yaml:"id"`
	Name      string      `json:"name"       yaml:"name"`
	Type      SourceType  `json:"type"       yaml:"type"`
	StartURLs []string    `json:"start_urls" yaml:"start_urls"`
	Rules     SourceRules `json:"rules"      yaml:"rules"`
}

// SourceRules carries the per-source extraction rules. Which fields are
// required depends on Source.Type.
type SourceRules struct {
	// LinkPattern matches article links on a list page. Interpreted as a
	// regular expression when it compiles, as a substring otherwise.
	// Required for html_list sources.
	LinkPattern string `json:"link_pattern,omitempty" yaml:"link_pattern"`

	// List-card field selectors, all optional. When empty the extractor
	// falls back to reading the card text around each matched link.
	TitleSelector   string `json:"title_selector,omitempty"   yaml:"title_selector"`
	SummarySelector string `json:"summary_selector,omitempty" yaml:"summary_selector"`
	ImageSelector   string `json:"image_selector,omitempty"   yaml:"image_selector"`

	// Detail enables a secondary fetch of each article page to fill
	// title/summary/image/published_at from page metadata.
	Detail bool `json:"detail,omitempty" yaml:"detail"`

	// FetchSummary (rss only) fetches the article page's meta description
	// when the feed item has no summary of its own.
	FetchSummary bool `json:"fetch_summary,omitempty" yaml:"fetch_summary"`

	// Tags are attached verbatim to every article from this source.
	Tags []string `json:"tags,omitempty" yaml:"tags"`

	// ManualOnly excludes the source from crawl-all; it is populated via
	// the manual import path instead.
	ManualOnly bool `json:"manual_only,omitempty" yaml:"manual_only"`
}
