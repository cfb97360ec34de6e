// filepath: internal/api/handlers/admin_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ranktrack/internal/models"
)

// @Summary List all user accounts
// @Description Admin only. Includes the granted site IDs for client users.
// @Tags Users
// @Produce json
// @Success 200 {array} models.User
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *Handlers) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.User.GetUsers(authContext(r))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

// @Summary Create a user account
// @Description Admin only. Client accounts carry the granted site IDs.
// @Tags Users
// @Accept json
// @Produce json
// @Param user body models.UserCreatePayload true "Account"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username taken"
// @Security BearerAuth
// @Router /user [post]
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var payload models.UserCreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	actx := authContext(r)
	user, err := h.User.CreateUser(actx, payload)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	h.Audit.Log(r.Context(), "user.create", actx.Username, fmt.Sprintf("User:%d", user.ID), map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
	})
	respondWithJSON(w, http.StatusCreated, user)
}

// @Summary Update a user account
// @Description Admin only. Changes role, password or site grants. The last admin cannot be demoted.
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id query int true "User ID"
// @Param user body models.UserUpdatePayload true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /user [patch]
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var payload models.UserUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	actx := authContext(r)
	user, err := h.User.UpdateUser(actx, userID, payload)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	h.Audit.Log(r.Context(), "user.update", actx.Username, fmt.Sprintf("User:%d", userID), nil)
	respondWithJSON(w, http.StatusOK, user)
}

// @Summary Delete a user account
// @Description Admin only. The last admin cannot be deleted.
// @Tags Users
// @Produce json
// @Param user_id query int true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /user [delete]
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "user_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	actx := authContext(r)
	if err := h.User.DeleteUser(actx, userID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	h.Audit.Log(r.Context(), "user.delete", actx.Username, fmt.Sprintf("User:%d", userID), nil)
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "User deleted."})
}

// passwordRequest is the body for the self-service password change.
type passwordRequest struct {
	Password string `json:"password"`
}

// @Summary Change own password
// @Tags Users
// @Accept json
// @Produce json
// @Param password body passwordRequest true "New password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /me/password [patch]
func (h *Handlers) UpdateOwnPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.User.UpdateOwnPassword(authContext(r), req.Password); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Password updated."})
}

// @Summary Get own account
// @Tags Users
// @Produce json
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /me [get]
func (h *Handlers) GetMe(w http.ResponseWriter, r *http.Request) {
	actx := authContext(r)
	if actx == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	user, err := h.User.GetUserByID(actx.UserID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
