// filepath: internal/models/models.go
// Package models contains the core data structures for the application.
package models

import (
	"time"
)

// Diff sentinels for month-over-month position changes. A keyword that ranks
// in the latest month with no prior month gets +999 ("new entry"); a keyword
// that had a position last month but dropped out of the result set gets -999.
// Consumers sort and filter on diff magnitude, so these values are part of
// the contract.
const (
	DiffNewEntry   = 999
	DiffDroppedOut = -999
)

// Site represents one tracked property (tenant). All keywords and groups
// belong to exactly one site.
type Site struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url,omitempty"`
	Favicon   string    `json:"favicon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Keyword is a tracked search query scoped to one site. Volume is the latest
// observed search-volume estimate; it is overwritten on every ingestion.
type Keyword struct {
	ID        int64     `json:"id"`
	SiteID    int64     `json:"site_id"`
	Keyword   string    `json:"keyword"`
	Volume    int       `json:"volume"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ranking is one keyword's observed position for one calendar month.
// Position is nil when the keyword was not found in the observed result set.
type Ranking struct {
	ID           int64     `json:"id"`
	KeywordID    int64     `json:"keyword_id"`
	RankingDate  time.Time `json:"ranking_date"` // always the first of the month
	Position     *int      `json:"position"`
	URL          string    `json:"url"`
	IsAIOverview bool      `json:"is_ai_overview"`
}

// KeywordGroup is a user-defined tag grouping keywords within one site.
type KeywordGroup struct {
	ID         int64   `json:"id"`
	SiteID     int64   `json:"site_id"`
	Name       string  `json:"name"`
	KeywordIDs []int64 `json:"keyword_ids,omitempty"`
}

// Roles. Admins access every site; clients only the sites they are granted.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User represents a user account in the system.
type User struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"` // Omit from JSON responses
	Role         string  `json:"role"`
	SiteIDs      []int64 `json:"site_ids,omitempty"` // Granted sites (clients only)
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// AuthContext carries the resolved identity of the current request. It is
// built once by the auth middleware and passed explicitly into every
// site-scoped service operation; there is no ambient session state.
type AuthContext struct {
	UserID   int64
	Username string
	Role     string
	SiteIDs  []int64 // Granted sites; unused for admins
}

// RankRecord is one parsed rank-export row, the unit of ingestion.
type RankRecord struct {
	Keyword      string `json:"keyword"`
	Volume       int    `json:"volume"`
	Position     *int   `json:"position"` // nil = not found ("out of range")
	URL          string `json:"url"`
	IsAIOverview bool   `json:"is_ai_overview"`
	Month        string `json:"month"` // "YYYY-MM"
}

// IngestReport summarizes one ingestion batch.
type IngestReport struct {
	BatchID  string `json:"batch_id"`
	Keywords int    `json:"keywords"`
	Rankings int    `json:"rankings"`
}

// RankingCell is one month's observation inside a keyword history.
type RankingCell struct {
	Position     *int   `json:"position"`
	URL          string `json:"url"`
	IsAIOverview bool   `json:"is_ai_overview"`
}

// KeywordHistory is the read-side projection for one keyword: the full
// month-keyed history plus derived latest position and diff. LatestPosition
// and LatestDiff are recomputed on every read, never stored.
type KeywordHistory struct {
	KeywordID      int64                  `json:"keyword_id"`
	Keyword        string                 `json:"keyword"`
	Volume         int                    `json:"volume"`
	History        map[string]RankingCell `json:"history"` // key: "YYYY-MM"
	LatestPosition *int                   `json:"latest_position"`
	LatestDiff     *int                   `json:"latest_diff"`
}

// LookupResult is the position observed for the target site by the external
// rank-lookup collaborator.
type LookupResult struct {
	Position int    `json:"position"`
	URL      string `json:"url"`
}

// SiteCreatePayload is used for the POST /api/site request.
type SiteCreatePayload struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// SiteUpdatePayload is used for the PUT /api/site request.
type SiteUpdatePayload struct {
	Name *string `json:"name,omitempty"`
	URL  *string `json:"url,omitempty"`
}

// IngestBatchPayload is used for the POST /api/site/ingest request.
type IngestBatchPayload struct {
	Records []RankRecord `json:"records"`
}

// IngestOnePayload is used for the POST /api/keyword/ingest request.
type IngestOnePayload struct {
	Keyword      string `json:"keyword"`
	Month        string `json:"month"`
	Position     *int   `json:"position"`
	URL          string `json:"url"`
	IsAIOverview bool   `json:"is_ai_overview"`
}

// GroupCreatePayload is used for the POST /api/group request.
type GroupCreatePayload struct {
	Name string `json:"name"`
}

// GroupMembersPayload is used for group membership changes.
type GroupMembersPayload struct {
	KeywordIDs []int64 `json:"keyword_ids"`
}

// UserCreatePayload is used by admins to create accounts.
type UserCreatePayload struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	SiteIDs  []int64 `json:"site_ids,omitempty"`
}

// UserUpdatePayload is used by admins to change role, grants or password.
type UserUpdatePayload struct {
	Role     *string  `json:"role,omitempty"`
	Password *string  `json:"password,omitempty"`
	SiteIDs  *[]int64 `json:"site_ids,omitempty"`
}

// LookupRequestPayload is used for the POST /api/site/lookup request.
type LookupRequestPayload struct {
	Keyword   string `json:"keyword"`
	TargetURL string `json:"target_url,omitempty"`
}

// Info represents general information about the service.
type Info struct {
	ServiceName string    `json:"service_name"`
	Version     string    `json:"version"`
	UptimeSince time.Time `json:"uptime_since"`
}
