// filepath: internal/services/guard.go
package services

import (
	"fmt"

	"ranktrack/internal/models"
)

// CanAccessSite is the single capability check applied at the top of every
// site-scoped operation. Admins access every site; clients only the sites
// they are explicitly granted.
func CanAccessSite(actx *models.AuthContext, siteID int64) bool {
	if actx == nil {
		return false
	}
	if actx.Role == models.RoleAdmin {
		return true
	}
	for _, id := range actx.SiteIDs {
		if id == siteID {
			return true
		}
	}
	return false
}

// requireSiteAccess distinguishes "no identity" from "authenticated but not
// entitled": both must surface as distinct error kinds.
func requireSiteAccess(actx *models.AuthContext, siteID int64) error {
	if actx == nil {
		return ErrNotAuthenticated
	}
	if !CanAccessSite(actx, siteID) {
		return fmt.Errorf("site %d: %w", siteID, ErrForbidden)
	}
	return nil
}

// requireAdmin guards admin-only operations (site lifecycle, user accounts).
func requireAdmin(actx *models.AuthContext) error {
	if actx == nil {
		return ErrNotAuthenticated
	}
	if actx.Role != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
