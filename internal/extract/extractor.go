// Package extract turns fetched payloads into candidate articles by
// applying a source's declarative rules.
//
// Extraction is pure CPU work: it never fetches. The crawl coordinator
// owns all network access and hands payloads in.
package extract

import (
	"fmt"

	"github.com/hoehoe5252-yong/yong2/internal/models"
)

// ParseError means a payload did not match the structure the source's
// rules expect. It aborts that source's run but never a sibling's.
type ParseError struct {
	SourceID string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse source %s: %v", e.SourceID, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// List extracts candidate article stubs from a list-level payload,
// dispatching on the source type. Candidates come back in page order with
// normalized URLs; duplicates within the payload are already collapsed
// (first occurrence wins).
func List(body []byte, pageURL string, src models.Source) ([]models.Candidate, error) {
	switch src.Type {
	case models.SourceTypeHTMLList:
		return htmlList(body, pageURL, src)
	case models.SourceTypeRSS:
		return feedList(body, src)
	default:
		return nil, &ParseError{SourceID: src.ID, Err: fmt.Errorf("unsupported source type %q", src.Type)}
	}
}
