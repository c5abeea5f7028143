package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cellName, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cellName, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseExcel(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"title", "url", "summary", "author", "published_at", "tags"},
		{"기사 하나", "https://example.com/1?utm_source=x", "요약", "김기자", "2026-08-18", "it, cloud"},
		{"", "https://example.com/2"},
		{"스킴 없음", "example.com/3"},
		{"기사 둘", "https://example.com/4"},
	})

	candidates, importErrs, err := ParseExcel(buf, "i_boss")
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	first := candidates[0]
	assert.Equal(t, "i_boss", first.SourceID)
	assert.Equal(t, "기사 하나", first.Title)
	assert.Equal(t, "https://example.com/1", first.URL)
	assert.Equal(t, []string{"it", "cloud"}, first.Tags)
	require.NotNil(t, first.PublishedAt)

	require.Len(t, importErrs, 2)
	assert.Equal(t, 3, importErrs[0].Row)
	assert.Equal(t, "title is required", importErrs[0].Error)
	assert.Equal(t, 4, importErrs[1].Row)
	assert.Equal(t, "url must start with http:// or https://", importErrs[1].Error)
}

func TestParseExcelBadPayload(t *testing.T) {
	_, _, err := ParseExcel(bytes.NewReader([]byte("not a workbook")), "")
	assert.Error(t, err)
}

func TestValidateRow(t *testing.T) {
	tests := []struct {
		name string
		row  ArticleRow
		want string
	}{
		{"valid", ArticleRow{Title: "t", URL: "https://x.example.com"}, ""},
		{"missing title", ArticleRow{URL: "https://x.example.com"}, "title is required"},
		{"missing url", ArticleRow{Title: "t"}, "url is required"},
		{"bad scheme", ArticleRow{Title: "t", URL: "ftp://x"}, "url must start with http:// or https://"},
		{"bad date", ArticleRow{Title: "t", URL: "https://x.example.com", PublishedAt: "someday"}, "published_at is not a recognizable date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateRow(tt.row))
		})
	}
}
