// filepath: internal/api/handlers/history_handler.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"ranktrack/internal/logging"
)

// @Summary Get the keyword history of a site
// @Description Returns one entry per keyword with the month-keyed ranking history and derived latest position and diff.
// @Tags History
// @Produce json
// @Param site_id query int true "Site ID"
// @Success 200 {array} models.KeywordHistory
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /site/history [get]
func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	siteID, err := queryID(r, "site_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	histories, err := h.History.GetHistory(authContext(r), siteID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, histories)
}

// @Summary Export the keyword history as CSV
// @Description Streams the history table as a CSV download, one column per month.
// @Tags History
// @Produce text/csv
// @Param site_id query int true "Site ID"
// @Success 200 {string} string "CSV content"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /site/history/export [get]
func (h *Handlers) ExportHistory(w http.ResponseWriter, r *http.Request) {
	siteID, err := queryID(r, "site_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Buffer the export so a failed access check still produces a clean JSON
	// error instead of half a CSV.
	var buf bytes.Buffer
	if err := h.History.ExportCSV(r.Context(), authContext(r), siteID, &buf); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="history_site_%d.csv"`, siteID))
	if _, err := buf.WriteTo(w); err != nil {
		logging.Log.Warnf("ExportHistory: client went away during export of site %d: %v", siteID, err)
	}
}
