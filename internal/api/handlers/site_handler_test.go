// filepath: internal/api/handlers/site_handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"ranktrack/internal/models"
	"ranktrack/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSiteAPI(t *testing.T) {
	server, m, cleanup := setupHandlerTest(t, adminContext())
	defer cleanup()

	// --- Create Site ---
	createPayload := models.SiteCreatePayload{Name: "Example", URL: "https://example.com"}
	payloadBytes, _ := json.Marshal(createPayload)

	returned := models.Site{ID: 1, Name: "Example", URL: "https://example.com"}
	m.Site.On("CreateSite", mock.Anything, createPayload).Return(&returned, nil).Once()
	m.Auditor.On("Log", mock.Anything, "site.create", "admin", "Site:1", mock.Anything).Return().Once()

	resp, err := http.Post(server.URL+"/site", "application/json", bytes.NewReader(payloadBytes))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Site
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "Example", created.Name)
	m.Auditor.AssertExpectations(t)

	// --- Get Sites ---
	m.Site.On("GetSites", mock.Anything).Return([]models.Site{returned}, nil).Once()
	resp, err = http.Get(server.URL + "/sites")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var sites []models.Site
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&sites))
	assert.Len(t, sites, 1)

	// --- Get one site, not found ---
	m.Site.On("GetSite", mock.Anything, int64(42)).Return(nil, services.ErrNotFound).Once()
	resp, err = http.Get(server.URL + "/site?site_id=42")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// --- Missing site_id ---
	resp, err = http.Get(server.URL + "/site")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	m.Site.AssertExpectations(t)
}

func TestSiteAPI_ForbiddenMapsTo403(t *testing.T) {
	server, m, cleanup := setupHandlerTest(t, &models.AuthContext{
		UserID: 2, Username: "client", Role: models.RoleClient, SiteIDs: []int64{7},
	})
	defer cleanup()

	m.Site.On("GetSite", mock.Anything, int64(3)).Return(nil, services.ErrForbidden).Once()
	resp, err := http.Get(server.URL + "/site?site_id=3")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body ErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Forbidden", body.Error)
}

func TestLookupAPI(t *testing.T) {
	server, m, cleanup := setupHandlerTest(t, adminContext())
	defer cleanup()

	payload := models.LookupRequestPayload{Keyword: "seo tools"}
	payloadBytes, _ := json.Marshal(payload)

	m.Lookup.On("FetchLatestRankings", mock.Anything, mock.Anything, int64(1), "seo tools", "").
		Return(&models.LookupResult{Position: 4, URL: "https://example.com"}, nil).Once()

	resp, err := http.Post(server.URL+"/site/lookup?site_id=1", "application/json", bytes.NewReader(payloadBytes))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.LookupResult
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 4, result.Position)

	// Keyword not found among the hits: 204, nothing to decode.
	m.Lookup.On("FetchLatestRankings", mock.Anything, mock.Anything, int64(1), "seo tools", "").
		Return(nil, nil).Once()
	resp, err = http.Post(server.URL+"/site/lookup?site_id=1", "application/json", bytes.NewReader(payloadBytes))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	m.Lookup.AssertExpectations(t)
}
