// filepath: internal/api/router.go
// Package api wires the HTTP surface: routes, middleware and handlers.
package api

import (
	"net/http"

	"ranktrack/internal/api/handlers"
	"ranktrack/internal/models"
	"ranktrack/internal/services/auth"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter configures the main router and its sub-routers.
func SetupRouter(h *handlers.Handlers, am *auth.Middleware) *mux.Router {
	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/api/info", h.GetInfo).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Public token endpoints (not behind the auth middleware)
	r.HandleFunc("/api/token", h.GetToken).Methods(http.MethodPost)
	r.HandleFunc("/api/token/refresh", h.RefreshToken).Methods(http.MethodPost)

	// Authenticated API routes
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(am.AuthMiddleware)

	apiRouter.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
	apiRouter.HandleFunc("/me", h.GetMe).Methods(http.MethodGet)
	apiRouter.HandleFunc("/me/password", h.UpdateOwnPassword).Methods(http.MethodPatch)

	addSiteRoutes(apiRouter, h, am)
	addIngestRoutes(apiRouter, h)
	addGroupRoutes(apiRouter, h)
	addAdminRoutes(apiRouter, h, am)

	return r
}

// addSiteRoutes configures site reads for everyone and the site lifecycle
// for admins. Per-site entitlement runs inside the services.
func addSiteRoutes(r *mux.Router, h *handlers.Handlers, am *auth.Middleware) {
	r.HandleFunc("/sites", h.GetSites).Methods(http.MethodGet)
	r.HandleFunc("/site", h.GetSite).Methods(http.MethodGet)
	r.HandleFunc("/site/history", h.GetHistory).Methods(http.MethodGet)
	r.HandleFunc("/site/history/export", h.ExportHistory).Methods(http.MethodGet)
	r.HandleFunc("/site/lookup", h.LookupRank).Methods(http.MethodPost)

	adminRouter := r.PathPrefix("").Subrouter()
	adminRouter.Use(am.RequireRole(models.RoleAdmin))
	adminRouter.HandleFunc("/site", h.CreateSite).Methods(http.MethodPost)
	adminRouter.HandleFunc("/site", h.UpdateSite).Methods(http.MethodPut)
	adminRouter.HandleFunc("/site", h.DeleteSite).Methods(http.MethodDelete)
}

// addIngestRoutes configures ingestion and deletion endpoints.
func addIngestRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/site/import", h.ImportCSV).Methods(http.MethodPost)
	r.HandleFunc("/site/ingest", h.IngestBatch).Methods(http.MethodPost)
	r.HandleFunc("/keyword/ingest", h.IngestOne).Methods(http.MethodPost)
	r.HandleFunc("/site/rankings", h.DeleteRankingsForMonth).Methods(http.MethodDelete)
	r.HandleFunc("/site/data", h.DeleteAllData).Methods(http.MethodDelete)
	r.HandleFunc("/keyword", h.DeleteKeyword).Methods(http.MethodDelete)
}

// addGroupRoutes configures keyword-group management.
func addGroupRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/groups", h.GetGroups).Methods(http.MethodGet)
	r.HandleFunc("/group", h.CreateGroup).Methods(http.MethodPost)
	r.HandleFunc("/group", h.DeleteGroup).Methods(http.MethodDelete)
	r.HandleFunc("/group/keywords", h.AddKeywordsToGroup).Methods(http.MethodPost)
	r.HandleFunc("/group/keywords", h.RemoveKeywordsFromGroup).Methods(http.MethodDelete)
}

// addAdminRoutes configures administrative actions on user accounts.
func addAdminRoutes(r *mux.Router, h *handlers.Handlers, am *auth.Middleware) {
	adminRouter := r.PathPrefix("").Subrouter()
	adminRouter.Use(am.RequireRole(models.RoleAdmin))
	adminRouter.HandleFunc("/users", h.GetUsers).Methods(http.MethodGet)
	adminRouter.HandleFunc("/user", h.CreateUser).Methods(http.MethodPost)
	adminRouter.HandleFunc("/user", h.UpdateUser).Methods(http.MethodPatch)
	adminRouter.HandleFunc("/user", h.DeleteUser).Methods(http.MethodDelete)
}
