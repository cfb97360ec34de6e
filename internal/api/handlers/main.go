// filepath: internal/api/handlers/main.go
package handlers

import (
	"ranktrack/internal/config"
	"ranktrack/internal/services"
	"ranktrack/internal/services/auth"
)

// Handlers holds the shared dependencies for the API handlers. Handlers
// depend on the service interfaces, never on concrete implementations.
type Handlers struct {
	Info    services.InfoService
	User    services.UserService
	Site    services.SiteService
	Ingest  services.IngestService
	History services.HistoryService
	Group   services.GroupService
	Lookup  services.LookupService
	Token   auth.TokenService
	Audit   services.Auditor

	Cfg *config.Config
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(
	info services.InfoService,
	user services.UserService,
	site services.SiteService,
	ingest services.IngestService,
	history services.HistoryService,
	group services.GroupService,
	lookup services.LookupService,
	token auth.TokenService,
	audit services.Auditor,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Info:    info,
		User:    user,
		Site:    site,
		Ingest:  ingest,
		History: history,
		Group:   group,
		Lookup:  lookup,
		Token:   token,
		Audit:   audit,
		Cfg:     cfg,
	}
}
