// filepath: internal/api/handlers/site_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ranktrack/internal/models"
)

// @Summary List sites
// @Description Returns every site for admins, the granted sites for clients.
// @Tags Sites
// @Produce json
// @Success 200 {array} models.Site
// @Security BearerAuth
// @Router /sites [get]
func (h *Handlers) GetSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.Site.GetSites(authContext(r))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sites)
}

// @Summary Get one site
// @Tags Sites
// @Produce json
// @Param site_id query int true "Site ID"
// @Success 200 {object} models.Site
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /site [get]
func (h *Handlers) GetSite(w http.ResponseWriter, r *http.Request) {
	siteID, err := queryID(r, "site_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	site, err := h.Site.GetSite(authContext(r), siteID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, site)
}

// @Summary Create a site
// @Description Admin only. The favicon is resolved from the URL best-effort.
// @Tags Sites
// @Accept json
// @Produce json
// @Param site body models.SiteCreatePayload true "Site"
// @Success 201 {object} models.Site
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /site [post]
func (h *Handlers) CreateSite(w http.ResponseWriter, r *http.Request) {
	var payload models.SiteCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	actx := authContext(r)
	site, err := h.Site.CreateSite(actx, payload)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	h.Audit.Log(r.Context(), "site.create", actx.Username, fmt.Sprintf("Site:%d", site.ID), map[string]interface{}{"name": site.Name})
	respondWithJSON(w, http.StatusCreated, site)
}

// @Summary Update a site
// @Description Admin only. Changing the URL re-resolves the favicon.
// @Tags Sites
// @Accept json
// @Produce json
// @Param site_id query int true "Site ID"
// @Param site body models.SiteUpdatePayload true "Fields to change"
// @Success 200 {object} models.Site
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /site [put]
func (h *Handlers) UpdateSite(w http.ResponseWriter, r *http.Request) {
	siteID, err := queryID(r, "site_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.SiteUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	site, err := h.Site.UpdateSite(authContext(r), siteID, payload)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, site)
}

// @Summary Delete a site
// @Description Admin only. Keywords, rankings, groups and grants cascade.
// @Tags Sites
// @Produce json
// @Param site_id query int true "Site ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /site [delete]
func (h *Handlers) DeleteSite(w http.ResponseWriter, r *http.Request) {
	siteID, err := queryID(r, "site_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	actx := authContext(r)
	if err := h.Site.DeleteSite(actx, siteID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	h.Audit.Log(r.Context(), "site.delete", actx.Username, fmt.Sprintf("Site:%d", siteID), nil)
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Site deleted."})
}

// @Summary Look up the current rank for a keyword
// @Description Queries the external lookup provider and records the observed position for the current month.
// @Tags Lookup
// @Accept json
// @Produce json
// @Param site_id query int true "Site ID"
// @Param request body models.LookupRequestPayload true "Keyword and optional target URL"
// @Success 200 {object} models.LookupResult
// @Success 204 "Keyword not found in results"
// @Security BearerAuth
// @Router /site/lookup [post]
func (h *Handlers) LookupRank(w http.ResponseWriter, r *http.Request) {
	siteID, err := queryID(r, "site_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.LookupRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	result, err := h.Lookup.FetchLatestRankings(r.Context(), authContext(r), siteID, payload.Keyword, payload.TargetURL)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
