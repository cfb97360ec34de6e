// filepath: internal/api/handlers/ingest_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ranktrack/internal/csvimport"
	"ranktrack/internal/logging"
	"ranktrack/internal/models"
)

// @Summary Import a rank-export CSV
// @Description Parses an uploaded CSV and ingests its records. The month comes from the filename unless the month query parameter overrides it.
// @Tags Ingest
// @Accept mpfd
// @Produce json
// @Param site_id query int true "Site ID"
// @Param month query string false "Month override (YYYY-MM)"
// @Param file formData file true "Rank export CSV"
// @Success 200 {object} models.IngestReport
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /site/import [post]
func (h *Handlers) ImportCSV(w http.ResponseWriter, r *http.Request) {
	siteID, err := queryID(r, "site_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.Server.MaxUploadSize)
	if err := r.ParseMultipartForm(h.Cfg.Server.MaxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "Upload too large or malformed")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file upload")
		return
	}
	defer file.Close()

	month := r.URL.Query().Get("month")
	if month == "" {
		month, err = csvimport.MonthFromFilename(header.Filename)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if !models.ValidMonth(month) {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid month %q", month))
		return
	}

	records, err := csvimport.Parse(file, month)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	actx := authContext(r)
	report, err := h.Ingest.IngestBatch(actx, siteID, records)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	h.Audit.Log(r.Context(), "rankings.import", actx.Username, fmt.Sprintf("Site:%d", siteID), map[string]interface{}{
		"batch_id": report.BatchID,
		"month":    month,
		"rows":     report.Rankings,
	})
	respondWithJSON(w, http.StatusOK, report)
}

// @Summary Ingest a JSON batch of rank records
// @Tags Ingest
// @Accept json
// @Produce json
// @Param site_id query int true "Site ID"
// @Param batch body models.IngestBatchPayload true "Records"
// @Success 200 {object} models.IngestReport
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /site/ingest [post]
func (h *Handlers) IngestBatch(w http.ResponseWriter, r *http.Request) {
	siteID, err := queryID(r, "site_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.IngestBatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	report, err := h.Ingest.IngestBatch(authContext(r), siteID, payload.Records)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

// @Summary Ingest a single keyword observation
// @Tags Ingest
// @Accept json
// @Produce json
// @Param site_id query int true "Site ID"
// @Param record body models.IngestOnePayload true "Observation"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /keyword/ingest [post]
func (h *Handlers) IngestOne(w http.ResponseWriter, r *http.Request) {
	siteID, err := queryID(r, "site_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.IngestOnePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	err = h.Ingest.IngestOne(authContext(r), siteID, payload.Keyword, payload.Month,
		payload.Position, payload.URL, payload.IsAIOverview)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Record ingested."})
}

// deleteCountResponse reports how many rows a deletion removed.
type deleteCountResponse struct {
	Deleted int64 `json:"deleted"`
}

// @Summary Delete one month of rankings
// @Description Removes the site's ranking rows for the given month. Zero rows is success.
// @Tags Ingest
// @Produce json
// @Param site_id query int true "Site ID"
// @Param month query string true "Month (YYYY-MM)"
// @Success 200 {object} deleteCountResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /site/rankings [delete]
func (h *Handlers) DeleteRankingsForMonth(w http.ResponseWriter, r *http.Request) {
	siteID, err := queryID(r, "site_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	month := r.URL.Query().Get("month")
	actx := authContext(r)
	count, err := h.Ingest.DeleteRankingsForMonth(actx, siteID, month)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	h.Audit.Log(r.Context(), "rankings.delete_month", actx.Username, fmt.Sprintf("Site:%d", siteID), map[string]interface{}{
		"month":   month,
		"deleted": count,
	})
	respondWithJSON(w, http.StatusOK, deleteCountResponse{Deleted: count})
}

// @Summary Delete all keyword data of a site
// @Description Removes every keyword, ranking and group of the site. The site itself survives.
// @Tags Ingest
// @Produce json
// @Param site_id query int true "Site ID"
// @Success 200 {object} MessageResponse
// @Security BearerAuth
// @Router /site/data [delete]
func (h *Handlers) DeleteAllData(w http.ResponseWriter, r *http.Request) {
	siteID, err := queryID(r, "site_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	actx := authContext(r)
	if err := h.Ingest.DeleteAllData(actx, siteID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	h.Audit.Log(r.Context(), "site.wipe", actx.Username, fmt.Sprintf("Site:%d", siteID), nil)
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "All keyword data deleted."})
}

// @Summary Delete a keyword
// @Description Removes one keyword and its rankings.
// @Tags Ingest
// @Produce json
// @Param keyword_id query int true "Keyword ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /keyword [delete]
func (h *Handlers) DeleteKeyword(w http.ResponseWriter, r *http.Request) {
	keywordID, err := queryID(r, "keyword_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Ingest.DeleteKeyword(authContext(r), keywordID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	logging.Log.Debugf("handler: deleted keyword %d", keywordID)
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Keyword deleted."})
}
