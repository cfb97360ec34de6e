// filepath: internal/services/interfaces.go
package services

import (
	"context"
	"io"

	"ranktrack/internal/config"
	"ranktrack/internal/models"
)

// Auditor defines the interface for recording security-relevant events.
type Auditor interface {
	// Log records an event.
	// ctx: context to trace request IDs (if available)
	// action: what happened (e.g., "site.create", "rankings.ingest")
	// actor: who did it (username)
	// resource: what was affected (e.g., "Site:3", "Keyword:101")
	// details: structured metadata about the event
	Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{})
}

// InfoService defines the interface for the info service.
type InfoService interface {
	GetInfo() models.Info
}

// SiteService defines the interface for site (tenant) management.
type SiteService interface {
	GetSites(actx *models.AuthContext) ([]models.Site, error)
	GetSite(actx *models.AuthContext, id int64) (*models.Site, error)
	CreateSite(actx *models.AuthContext, payload models.SiteCreatePayload) (*models.Site, error)
	UpdateSite(actx *models.AuthContext, id int64, payload models.SiteUpdatePayload) (*models.Site, error)
	DeleteSite(actx *models.AuthContext, id int64) error
}

// IngestService defines the ranking ingestion and deletion contract.
type IngestService interface {
	IngestBatch(actx *models.AuthContext, siteID int64, records []models.RankRecord) (*models.IngestReport, error)
	IngestOne(actx *models.AuthContext, siteID int64, keyword, month string, position *int, url string, isAIOverview bool) error
	DeleteRankingsForMonth(actx *models.AuthContext, siteID int64, month string) (int64, error)
	DeleteAllData(actx *models.AuthContext, siteID int64) error
	DeleteKeyword(actx *models.AuthContext, keywordID int64) error
}

// HistoryService defines the read-side projection contract.
type HistoryService interface {
	GetHistory(actx *models.AuthContext, siteID int64) ([]models.KeywordHistory, error)
	ExportCSV(ctx context.Context, actx *models.AuthContext, siteID int64, w io.Writer) error
}

// GroupService defines keyword-group (tagging) management.
type GroupService interface {
	CreateGroup(actx *models.AuthContext, siteID int64, name string) (*models.KeywordGroup, error)
	DeleteGroup(actx *models.AuthContext, groupID int64) error
	AddKeywordsToGroup(actx *models.AuthContext, groupID int64, keywordIDs []int64) error
	RemoveKeywordsFromGroup(actx *models.AuthContext, groupID int64, keywordIDs []int64) error
	GetGroups(actx *models.AuthContext, siteID int64) ([]models.KeywordGroup, error)
}

// UserService defines the interface for account and grant management.
type UserService interface {
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	GetUsers(actx *models.AuthContext) ([]models.User, error)
	CreateUser(actx *models.AuthContext, payload models.UserCreatePayload) (*models.User, error)
	UpdateUser(actx *models.AuthContext, id int64, payload models.UserUpdatePayload) (*models.User, error)
	DeleteUser(actx *models.AuthContext, id int64) error
	UpdateOwnPassword(actx *models.AuthContext, password string) error
	InitializeAdminUser(cfg *config.Config) error
}

// LookupService queries the external rank-lookup collaborator and feeds the
// observed position back through single-record ingestion.
type LookupService interface {
	FetchLatestRankings(ctx context.Context, actx *models.AuthContext, siteID int64, keyword, targetURL string) (*models.LookupResult, error)
}
