// filepath: internal/services/history_service_test.go
package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"ranktrack/internal/models"
	"ranktrack/internal/repository"

	"github.com/stretchr/testify/assert"
)

func historyByKeyword(histories []models.KeywordHistory) map[string]models.KeywordHistory {
	m := make(map[string]models.KeywordHistory, len(histories))
	for _, h := range histories {
		m[h.Keyword] = h
	}
	return m
}

func TestGetHistory_DiffLaw(t *testing.T) {
	repo, cleanup := setupIntegrationTest(t)
	defer cleanup()

	site, err := repo.CreateSite("example", "https://example.com", "")
	assert.NoError(t, err)

	ingest := NewIngestService(repo)
	_, err = ingest.IngestBatch(adminCtx(), site.ID, []models.RankRecord{
		// improved: 9 -> 4
		{Keyword: "improved", Position: intPtr(9), Month: "2025-02"},
		{Keyword: "improved", Position: intPtr(4), Month: "2025-03"},
		// declined: 2 -> 6
		{Keyword: "declined", Position: intPtr(2), Month: "2025-02"},
		{Keyword: "declined", Position: intPtr(6), Month: "2025-03"},
		// newly ranked: absent in February
		{Keyword: "newcomer", Position: intPtr(12), Month: "2025-03"},
		// dropped out: position gone in March
		{Keyword: "vanished", Position: intPtr(5), Month: "2025-02"},
		{Keyword: "vanished", Position: nil, Month: "2025-03"},
		// never ranked in either month
		{Keyword: "ghost", Position: nil, Month: "2025-02"},
		{Keyword: "ghost", Position: nil, Month: "2025-03"},
	})
	assert.NoError(t, err)

	histories, err := NewHistoryService(repo).GetHistory(adminCtx(), site.ID)
	assert.NoError(t, err)
	byKw := historyByKeyword(histories)

	improved := byKw["improved"]
	assert.Equal(t, 4, *improved.LatestPosition)
	assert.Equal(t, 5, *improved.LatestDiff) // prev - curr = 9 - 4

	declined := byKw["declined"]
	assert.Equal(t, 6, *declined.LatestPosition)
	assert.Equal(t, -4, *declined.LatestDiff) // 2 - 6

	newcomer := byKw["newcomer"]
	assert.Equal(t, 12, *newcomer.LatestPosition)
	assert.Equal(t, models.DiffNewEntry, *newcomer.LatestDiff)

	vanished := byKw["vanished"]
	assert.Nil(t, vanished.LatestPosition)
	assert.Equal(t, models.DiffDroppedOut, *vanished.LatestDiff)

	ghost := byKw["ghost"]
	assert.Nil(t, ghost.LatestPosition)
	assert.Nil(t, ghost.LatestDiff)
}

func TestGetHistory_SingleMonthIsAllNewEntries(t *testing.T) {
	repo, cleanup := setupIntegrationTest(t)
	defer cleanup()

	site, err := repo.CreateSite("example", "https://example.com", "")
	assert.NoError(t, err)

	_, err = NewIngestService(repo).IngestBatch(adminCtx(), site.ID, []models.RankRecord{
		{Keyword: "seo tools", Position: intPtr(3), Month: "2025-03"},
	})
	assert.NoError(t, err)

	histories, err := NewHistoryService(repo).GetHistory(adminCtx(), site.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.DiffNewEntry, *histories[0].LatestDiff)
}

func TestGetHistory_KeywordLaggingNewestMonth(t *testing.T) {
	repo, cleanup := setupIntegrationTest(t)
	defer cleanup()

	site, err := repo.CreateSite("example", "https://example.com", "")
	assert.NoError(t, err)

	_, err = NewIngestService(repo).IngestBatch(adminCtx(), site.ID, []models.RankRecord{
		{Keyword: "fresh", Position: intPtr(2), Month: "2025-03"},
		// stale has no March row at all; its own newest month is February.
		{Keyword: "stale", Position: intPtr(7), Month: "2025-02"},
		// lagger trails the site by a month but has two months of its own.
		{Keyword: "lagger", Position: intPtr(9), Month: "2025-01"},
		{Keyword: "lagger", Position: intPtr(7), Month: "2025-02"},
	})
	assert.NoError(t, err)

	histories, err := NewHistoryService(repo).GetHistory(adminCtx(), site.ID)
	assert.NoError(t, err)
	byKw := historyByKeyword(histories)

	stale := byKw["stale"]
	assert.NotNil(t, stale.LatestPosition)
	assert.Equal(t, 7, *stale.LatestPosition)
	assert.Equal(t, models.DiffNewEntry, *stale.LatestDiff)

	lagger := byKw["lagger"]
	assert.Equal(t, 7, *lagger.LatestPosition)
	assert.Equal(t, 2, *lagger.LatestDiff) // 9 - 7, against its own months

	fresh := byKw["fresh"]
	assert.Equal(t, 2, *fresh.LatestPosition)
	assert.Equal(t, models.DiffNewEntry, *fresh.LatestDiff)
}

func TestGetHistory_KeywordWithoutRankings(t *testing.T) {
	repo, cleanup := setupIntegrationTest(t)
	defer cleanup()

	site, err := repo.CreateSite("example", "https://example.com", "")
	assert.NoError(t, err)

	_, err = repo.UpsertKeywords(site.ID, []repository.KeywordUpsert{{Keyword: "orphan", Volume: 10}})
	assert.NoError(t, err)

	histories, err := NewHistoryService(repo).GetHistory(adminCtx(), site.ID)
	assert.NoError(t, err)
	assert.Len(t, histories, 1)
	assert.Empty(t, histories[0].History)
	assert.Nil(t, histories[0].LatestPosition)
	assert.Nil(t, histories[0].LatestDiff)
}

func TestGetHistory_SiteIsolation(t *testing.T) {
	repo, cleanup := setupIntegrationTest(t)
	defer cleanup()

	siteA, err := repo.CreateSite("a", "https://a.com", "")
	assert.NoError(t, err)
	siteB, err := repo.CreateSite("b", "https://b.com", "")
	assert.NoError(t, err)

	ingest := NewIngestService(repo)
	_, err = ingest.IngestBatch(adminCtx(), siteA.ID, []models.RankRecord{
		{Keyword: "shared keyword", Position: intPtr(1), Month: "2025-03"},
	})
	assert.NoError(t, err)
	_, err = ingest.IngestBatch(adminCtx(), siteB.ID, []models.RankRecord{
		{Keyword: "shared keyword", Position: intPtr(50), Month: "2025-03"},
	})
	assert.NoError(t, err)

	histA, err := NewHistoryService(repo).GetHistory(adminCtx(), siteA.ID)
	assert.NoError(t, err)
	assert.Len(t, histA, 1)
	assert.Equal(t, 1, *histA[0].LatestPosition)

	// A client granted only site B never sees site A.
	_, err = NewHistoryService(repo).GetHistory(clientCtx(siteB.ID), siteA.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestExportCSV(t *testing.T) {
	repo, cleanup := setupIntegrationTest(t)
	defer cleanup()

	site, err := repo.CreateSite("example", "https://example.com", "")
	assert.NoError(t, err)

	_, err = NewIngestService(repo).IngestBatch(adminCtx(), site.ID, []models.RankRecord{
		{Keyword: "seo tools", Volume: 1200, Position: intPtr(9), Month: "2025-02"},
		{Keyword: "seo tools", Volume: 1200, Position: intPtr(4), Month: "2025-03"},
		{Keyword: "rank tracker", Volume: 800, Position: nil, Month: "2025-03"},
	})
	assert.NoError(t, err)

	var buf bytes.Buffer
	err = NewHistoryService(repo).ExportCSV(context.Background(), adminCtx(), site.ID, &buf)
	assert.NoError(t, err)

	raw := buf.Bytes()
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, raw[:3], "export must start with a UTF-8 BOM")

	records, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, []string{"Keyword", "Volume", "2025-02", "2025-03", "Diff"}, records[0])
	// Rows sorted by keyword.
	assert.Equal(t, []string{"rank tracker", "800", "", "", ""}, records[1])
	assert.Equal(t, []string{"seo tools", "1200", "9", "4", "5"}, records[2])
}
