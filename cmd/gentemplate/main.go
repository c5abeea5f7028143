// Command gentemplate generates the Excel manual-import template.
// Usage: go run cmd/gentemplate/main.go
package main

import (
	"log"
	"os"

	"github.com/xuri/excelize/v2"
)

func main() {
	f := excelize.NewFile()

	// Rename Sheet1 to Articles
	if err := f.SetSheetName("Sheet1", "Articles"); err != nil {
		log.Fatal(err)
	}

	// Add headers
	headers := []string{"title", "url", "summary", "author", "published_at", "tags"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Articles", cell, h); err != nil {
			log.Fatal(err)
		}
	}

	// Add example row 1
	row1 := []string{
		"클라우드 비용 절감 사례",
		"https://example.com/news/cloud-cost",
		"국내 기업의 클라우드 비용 최적화 사례 정리",
		"홍길동",
		"2026-08-01",
		"클라우드, 비용",
	}
	for i, v := range row1 {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Articles", cell, v); err != nil {
			log.Fatal(err)
		}
	}

	// Add example row 2
	row2 := []string{"Weekly Infra Digest", "https://blog.example.com/digest-12", "", "", "", ""}
	for i, v := range row2 {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Articles", cell, v); err != nil {
			log.Fatal(err)
		}
	}

	// Create Instructions sheet
	if _, err := f.NewSheet("Instructions"); err != nil {
		log.Fatal(err)
	}
	instructions := []string{
		"Column Descriptions:",
		"",
		"title - Required. Article headline",
		"url - Required. Article URL (must start with http:// or https://)",
		"summary - Optional. Short description shown in the feed",
		"author - Optional. Author or press name",
		"published_at - Optional. Date as 2006-01-02 or RFC 3339",
		"tags - Optional. Comma separated list (e.g., '클라우드, 비용')",
	}
	for i, line := range instructions {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue("Instructions", cell, line); err != nil {
			log.Fatal(err)
		}
	}

	// Ensure examples directory exists
	if err := os.MkdirAll("examples", 0755); err != nil {
		log.Fatal(err)
	}

	// Save the file
	if err := f.SaveAs("examples/manual-import-template.xlsx"); err != nil {
		log.Fatal(err)
	}
	log.Println("Created examples/manual-import-template.xlsx")
}
