// filepath: internal/csvimport/parser_test.go
package csvimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleCSV = `Keyword, Volume, Current position, Current URL inside, Current URL
seo tools,1200,3,,https://example.com/tools
rank tracker,"2,400",7,,https://example.com/tracker
keyword research,500,-,,
,100,1,,https://example.com/ignored
ai answers,900,2,AI Overview,https://example.com/ai
`

func TestParse(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleCSV), "2025-03")
	assert.NoError(t, err)
	assert.Len(t, records, 4, "the empty-keyword row is skipped")

	assert.Equal(t, "seo tools", records[0].Keyword)
	assert.Equal(t, 1200, records[0].Volume)
	assert.Equal(t, 3, *records[0].Position)
	assert.Equal(t, "https://example.com/tools", records[0].URL)
	assert.False(t, records[0].IsAIOverview)
	assert.Equal(t, "2025-03", records[0].Month)

	// Thousand separator in the volume cell.
	assert.Equal(t, 2400, records[1].Volume)

	// "-" position means out of range.
	assert.Equal(t, "keyword research", records[2].Keyword)
	assert.Nil(t, records[2].Position)

	assert.Equal(t, "ai answers", records[3].Keyword)
	assert.True(t, records[3].IsAIOverview)
}

func TestParse_InvalidInput(t *testing.T) {
	_, err := Parse(strings.NewReader(sampleCSV), "2025-3")
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("Volume, Current URL\n100,x\n"), "2025-03")
	assert.Error(t, err, "missing Keyword column")

	_, err = Parse(strings.NewReader(""), "2025-03")
	assert.Error(t, err, "empty file has no header")
}

func TestParse_EmptyPositionIsOutOfRange(t *testing.T) {
	csv := "Keyword, Volume, Current position, Current URL inside, Current URL\n" +
		"seo tools,100,,,\n"
	records, err := Parse(strings.NewReader(csv), "2025-03")
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Nil(t, records[0].Position)
}

func TestMonthFromFilename(t *testing.T) {
	month, err := MonthFromFilename("example.com 2025-03.csv")
	assert.NoError(t, err)
	assert.Equal(t, "2025-03", month)

	month, err = MonthFromFilename("export_2024-11-30.csv")
	assert.NoError(t, err)
	assert.Equal(t, "2024-11", month)

	_, err = MonthFromFilename("export.csv")
	assert.Error(t, err)

	_, err = MonthFromFilename("export 2025-13.csv")
	assert.Error(t, err, "month 13 does not exist")
}
