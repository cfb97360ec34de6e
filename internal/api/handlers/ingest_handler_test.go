// filepath: internal/api/handlers/ingest_handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"testing"

	"ranktrack/internal/models"
	"ranktrack/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func intPtr(v int) *int { return &v }

func multipartCSV(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	assert.NoError(t, err)
	_, err = part.Write([]byte(content))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestImportCSV(t *testing.T) {
	server, m, cleanup := setupHandlerTest(t, adminContext())
	defer cleanup()

	csvContent := "Keyword, Volume, Current position, Current URL inside, Current URL\n" +
		"seo tools,1200,3,,https://example.com/tools\n"

	expected := []models.RankRecord{{
		Keyword:  "seo tools",
		Volume:   1200,
		Position: intPtr(3),
		URL:      "https://example.com/tools",
		Month:    "2025-03",
	}}
	report := &models.IngestReport{BatchID: "01HZX", Keywords: 1, Rankings: 1}
	m.Ingest.On("IngestBatch", mock.Anything, int64(1), expected).Return(report, nil).Once()
	m.Auditor.On("Log", mock.Anything, "rankings.import", "admin", "Site:1", mock.Anything).Return().Once()

	// Month taken from the filename.
	body, contentType := multipartCSV(t, "example.com 2025-03.csv", csvContent)
	resp, err := http.Post(server.URL+"/site/import?site_id=1", contentType, body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.IngestReport
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "01HZX", got.BatchID)
	m.Ingest.AssertExpectations(t)
	m.Auditor.AssertExpectations(t)
}

func TestImportCSV_MonthOverrideAndErrors(t *testing.T) {
	server, m, cleanup := setupHandlerTest(t, adminContext())
	defer cleanup()

	csvContent := "Keyword, Volume, Current position, Current URL inside, Current URL\n" +
		"seo tools,100,1,,\n"

	// Query override beats the (dateless) filename.
	expected := []models.RankRecord{{Keyword: "seo tools", Volume: 100, Position: intPtr(1), Month: "2024-12"}}
	m.Ingest.On("IngestBatch", mock.Anything, int64(1), expected).
		Return(&models.IngestReport{BatchID: "01HZY", Keywords: 1, Rankings: 1}, nil).Once()
	m.Auditor.On("Log", mock.Anything, "rankings.import", "admin", "Site:1", mock.Anything).Return().Once()

	body, contentType := multipartCSV(t, "export.csv", csvContent)
	resp, err := http.Post(server.URL+"/site/import?site_id=1&month=2024-12", contentType, body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// No month anywhere: reject before touching the service.
	body, contentType = multipartCSV(t, "export.csv", csvContent)
	resp, err = http.Post(server.URL+"/site/import?site_id=1", contentType, body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	m.Ingest.AssertExpectations(t)
}

func TestIngestBatchAPI(t *testing.T) {
	server, m, cleanup := setupHandlerTest(t, adminContext())
	defer cleanup()

	payload := models.IngestBatchPayload{Records: []models.RankRecord{
		{Keyword: "seo tools", Volume: 100, Position: intPtr(2), Month: "2025-03"},
	}}
	payloadBytes, _ := json.Marshal(payload)

	m.Ingest.On("IngestBatch", mock.Anything, int64(1), payload.Records).
		Return(&models.IngestReport{BatchID: "01HZZ", Keywords: 1, Rankings: 1}, nil).Once()

	resp, err := http.Post(server.URL+"/site/ingest?site_id=1", "application/json", bytes.NewReader(payloadBytes))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Partial failure surfaces as a retryable 500.
	m.Ingest.On("IngestBatch", mock.Anything, int64(1), payload.Records).
		Return(nil, services.ErrPartialIngest).Once()
	resp, err = http.Post(server.URL+"/site/ingest?site_id=1", "application/json", bytes.NewReader(payloadBytes))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	m.Ingest.AssertExpectations(t)
}

func TestDeleteRankingsForMonthAPI(t *testing.T) {
	server, m, cleanup := setupHandlerTest(t, adminContext())
	defer cleanup()

	m.Ingest.On("DeleteRankingsForMonth", mock.Anything, int64(1), "2025-03").
		Return(int64(12), nil).Once()
	m.Auditor.On("Log", mock.Anything, "rankings.delete_month", "admin", "Site:1", mock.Anything).Return().Once()

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/site/rankings?site_id=1&month=2025-03", nil)
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body deleteCountResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(12), body.Deleted)

	// Validation failures from the service map to 400.
	m.Ingest.On("DeleteRankingsForMonth", mock.Anything, int64(1), "bogus").
		Return(int64(0), services.ErrValidation).Once()
	req, _ = http.NewRequest(http.MethodDelete, server.URL+"/site/rankings?site_id=1&month=bogus", nil)
	resp, err = http.DefaultClient.Do(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	m.Ingest.AssertExpectations(t)
}

func TestDeleteKeywordAPI(t *testing.T) {
	server, m, cleanup := setupHandlerTest(t, adminContext())
	defer cleanup()

	m.Ingest.On("DeleteKeyword", mock.Anything, int64(5)).Return(nil).Once()
	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/keyword?keyword_id=5", nil)
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	m.Ingest.On("DeleteKeyword", mock.Anything, int64(6)).Return(services.ErrNotFound).Once()
	req, _ = http.NewRequest(http.MethodDelete, server.URL+"/keyword?keyword_id=6", nil)
	resp, err = http.DefaultClient.Do(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	m.Ingest.AssertExpectations(t)
}
