// filepath: internal/csvimport/parser.go
// Package csvimport parses rank-export CSV files into ingestion records.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"ranktrack/internal/logging"
	"ranktrack/internal/models"
)

// Expected header columns. Matching is case-insensitive and ignores
// surrounding whitespace; extra columns are tolerated.
const (
	colKeyword   = "keyword"
	colVolume    = "volume"
	colPosition  = "current position"
	colURLInside = "current url inside"
	colURL       = "current url"
)

// aiOverviewMarker flags keywords surfaced inside an AI Overview block.
const aiOverviewMarker = "AI Overview"

var filenameMonthRegex = regexp.MustCompile(`(\d{4}-(?:0[1-9]|1[0-2]))(?:-\d{2})?`)

// MonthFromFilename extracts the "YYYY-MM" month from a filename carrying a
// YYYY-MM or YYYY-MM-DD date, e.g. "example.com 2025-03-15.csv".
func MonthFromFilename(name string) (string, error) {
	m := filenameMonthRegex.FindStringSubmatch(name)
	if m == nil {
		return "", fmt.Errorf("no YYYY-MM date found in filename %q", name)
	}
	return m[1], nil
}

// Parse reads a rank-export CSV and returns one RankRecord per data row,
// all stamped with the given month. Rows with an empty Keyword cell are
// skipped; an empty or "-" position means the keyword was out of range.
func Parse(r io.Reader, month string) ([]models.RankRecord, error) {
	if !models.ValidMonth(month) {
		return nil, fmt.Errorf("invalid month %q", month)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows tolerated, mapped by header index
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	records := make([]models.RankRecord, 0)
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error at line %d: %w", line+1, err)
		}
		line++

		keyword := strings.TrimSpace(field(row, cols[colKeyword]))
		if keyword == "" {
			logging.Log.Debugf("csvimport: skipping line %d, empty keyword", line)
			continue
		}

		urlInside := field(row, cols[colURLInside])
		rec := models.RankRecord{
			Keyword:      keyword,
			Volume:       parseVolume(field(row, cols[colVolume])),
			Position:     parsePosition(field(row, cols[colPosition])),
			URL:          strings.TrimSpace(field(row, cols[colURL])),
			IsAIOverview: strings.Contains(urlInside, aiOverviewMarker),
			Month:        month,
		}
		records = append(records, rec)
	}
	return records, nil
}

// mapHeader resolves column names to their indices, -1 for columns the file
// does not carry. "Current URL" must not swallow "Current URL inside", so
// matching is on the full normalized cell.
func mapHeader(header []string) (map[string]int, error) {
	cols := map[string]int{
		colKeyword:   -1,
		colVolume:    -1,
		colPosition:  -1,
		colURLInside: -1,
		colURL:       -1,
	}
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if _, known := cols[name]; known {
			cols[name] = i
		}
	}
	for _, required := range []string{colKeyword, colPosition} {
		if cols[required] < 0 {
			return nil, fmt.Errorf("missing required CSV column %q", required)
		}
	}
	return cols, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseVolume reads a search-volume cell, tolerating thousand separators.
// Unparseable cells degrade to 0.
func parseVolume(s string) int {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// parsePosition reads a position cell. Empty, "-" and unparseable cells mean
// the keyword was not found (nil position).
func parsePosition(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return nil
	}
	return &v
}
