package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hoehoe5252-yong/yong2/internal/extract"
	"github.com/hoehoe5252-yong/yong2/internal/models"
)

// Column indices for the import spreadsheet (0-based).
const (
	colTitle       = 0 // Column A
	colURL         = 1 // Column B
	colSummary     = 2 // Column C
	colAuthor      = 3 // Column D
	colPublishedAt = 4 // Column E
	colTags        = 5 // Column F

	minRequiredColumns = 2
	headerRowIndex     = 1 // Excel rows are 1-based, header is row 1
)

// ArticleRow represents a parsed row from the spreadsheet.
type ArticleRow struct {
	Row         int // Excel row number (for error reporting)
	Title       string
	URL         string
	Summary     string
	Author      string
	PublishedAt string
	Tags        string // comma separated
}

// ImportError represents a validation error for a specific row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ValidateRow validates a single row and returns an error message or
// empty string.
func ValidateRow(row ArticleRow) string {
	if strings.TrimSpace(row.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(row.URL) == "" {
		return "url is required"
	}
	if !strings.HasPrefix(row.URL, "http://") && !strings.HasPrefix(row.URL, "https://") {
		return "url must start with http:// or https://"
	}
	if row.PublishedAt != "" && parseSeedDate(row.PublishedAt) == nil {
		return "published_at is not a recognizable date"
	}
	return ""
}

// ParseExcel reads the first sheet of an xlsx workbook into candidates.
// Invalid rows are reported per-row and skipped; only an unreadable
// workbook is an error.
func ParseExcel(r io.Reader, sourceID string) ([]models.Candidate, []ImportError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	if sourceID == "" {
		sourceID = models.ManualImportSourceID
	}

	var candidates []models.Candidate
	var importErrs []ImportError

	for i, cells := range rows {
		rowNum := i + 1
		if rowNum == headerRowIndex {
			continue
		}
		if len(cells) < minRequiredColumns {
			importErrs = append(importErrs, ImportError{Row: rowNum, Error: "too few columns"})
			continue
		}

		row := ArticleRow{
			Row:         rowNum,
			Title:       cell(cells, colTitle),
			URL:         cell(cells, colURL),
			Summary:     cell(cells, colSummary),
			Author:      cell(cells, colAuthor),
			PublishedAt: cell(cells, colPublishedAt),
			Tags:        cell(cells, colTags),
		}

		if msg := ValidateRow(row); msg != "" {
			importErrs = append(importErrs, ImportError{Row: rowNum, Error: msg})
			continue
		}

		candidates = append(candidates, models.Candidate{
			SourceID:    sourceID,
			Title:       row.Title,
			URL:         extract.NormalizeURL(row.URL),
			Summary:     row.Summary,
			Author:      row.Author,
			Tags:        splitTags(row.Tags),
			PublishedAt: parseSeedDate(row.PublishedAt),
		})
	}

	return candidates, importErrs, nil
}

func cell(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
