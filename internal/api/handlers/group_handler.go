// filepath: internal/api/handlers/group_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"ranktrack/internal/models"
)

// @Summary List the groups of a site
// @Tags Groups
// @Produce json
// @Param site_id query int true "Site ID"
// @Success 200 {array} models.KeywordGroup
// @Security BearerAuth
// @Router /groups [get]
func (h *Handlers) GetGroups(w http.ResponseWriter, r *http.Request) {
	siteID, err := queryID(r, "site_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	groups, err := h.Group.GetGroups(authContext(r), siteID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, groups)
}

// @Summary Create a keyword group
// @Tags Groups
// @Accept json
// @Produce json
// @Param site_id query int true "Site ID"
// @Param group body models.GroupCreatePayload true "Group"
// @Success 201 {object} models.KeywordGroup
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /group [post]
func (h *Handlers) CreateGroup(w http.ResponseWriter, r *http.Request) {
	siteID, err := queryID(r, "site_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.GroupCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	group, err := h.Group.CreateGroup(authContext(r), siteID, payload.Name)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, group)
}

// @Summary Delete a keyword group
// @Tags Groups
// @Produce json
// @Param group_id query int true "Group ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /group [delete]
func (h *Handlers) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := queryID(r, "group_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Group.DeleteGroup(authContext(r), groupID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Group deleted."})
}

// @Summary Add keywords to a group
// @Tags Groups
// @Accept json
// @Produce json
// @Param group_id query int true "Group ID"
// @Param members body models.GroupMembersPayload true "Keyword IDs"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /group/keywords [post]
func (h *Handlers) AddKeywordsToGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := queryID(r, "group_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.GroupMembersPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.Group.AddKeywordsToGroup(authContext(r), groupID, payload.KeywordIDs); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Keywords added."})
}

// @Summary Remove keywords from a group
// @Tags Groups
// @Accept json
// @Produce json
// @Param group_id query int true "Group ID"
// @Param members body models.GroupMembersPayload true "Keyword IDs"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /group/keywords [delete]
func (h *Handlers) RemoveKeywordsFromGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := queryID(r, "group_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.GroupMembersPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.Group.RemoveKeywordsFromGroup(authContext(r), groupID, payload.KeywordIDs); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Keywords removed."})
}
