// filepath: internal/services/site_service.go
package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"ranktrack/internal/logging"
	"ranktrack/internal/models"
	"ranktrack/internal/repository"
)

var _ SiteService = (*siteService)(nil)

// siteService implements site (tenant) lifecycle management. Creation,
// update and deletion are admin operations; reads are role filtered.
type siteService struct {
	Repo *repository.Repository
}

// NewSiteService creates a new SiteService.
func NewSiteService(repo *repository.Repository) *siteService {
	return &siteService{Repo: repo}
}

// GetSites returns every site for admins and only the granted sites for
// clients.
func (s *siteService) GetSites(actx *models.AuthContext) ([]models.Site, error) {
	if actx == nil {
		return nil, ErrNotAuthenticated
	}
	if actx.Role == models.RoleAdmin {
		return s.Repo.GetSites()
	}
	return s.Repo.GetSitesByIDs(actx.SiteIDs)
}

// GetSite returns one site, guarded by the caller's grants.
func (s *siteService) GetSite(actx *models.AuthContext, id int64) (*models.Site, error) {
	if err := requireSiteAccess(actx, id); err != nil {
		return nil, err
	}
	site, err := s.Repo.GetSite(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("site %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return site, nil
}

// CreateSite creates a site. The favicon is resolved from the site URL on a
// best-effort basis; a site without a resolvable favicon is still created.
func (s *siteService) CreateSite(actx *models.AuthContext, payload models.SiteCreatePayload) (*models.Site, error) {
	if err := requireAdmin(actx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: site name is required", ErrValidation)
	}
	favicon := resolveFavicon(payload.URL)
	site, err := s.Repo.CreateSite(name, payload.URL, favicon)
	if err != nil {
		return nil, err
	}
	logging.Log.Infof("SiteService: created site %d (%s)", site.ID, site.Name)
	return site, nil
}

// UpdateSite applies the non-nil payload fields. Changing the URL re-resolves
// the favicon.
func (s *siteService) UpdateSite(actx *models.AuthContext, id int64, payload models.SiteUpdatePayload) (*models.Site, error) {
	if err := requireAdmin(actx); err != nil {
		return nil, err
	}
	site, err := s.Repo.GetSite(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("site %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if payload.Name != nil {
		name := strings.TrimSpace(*payload.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: site name is required", ErrValidation)
		}
		site.Name = name
	}
	if payload.URL != nil {
		site.URL = *payload.URL
		site.Favicon = resolveFavicon(site.URL)
	}
	if err := s.Repo.UpdateSite(site); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("site %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return site, nil
}

// DeleteSite removes the site; keywords, rankings, groups and user grants
// cascade in the database.
func (s *siteService) DeleteSite(actx *models.AuthContext, id int64) error {
	if err := requireAdmin(actx); err != nil {
		return err
	}
	if err := s.Repo.DeleteSite(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("site %d: %w", id, ErrNotFound)
		}
		return err
	}
	logging.Log.Infof("SiteService: deleted site %d", id)
	return nil
}

// resolveFavicon builds a favicon URL for the site's hostname using Google's
// favicon endpoint. An unparseable or empty site URL degrades to no favicon.
func resolveFavicon(siteURL string) string {
	if strings.TrimSpace(siteURL) == "" {
		return ""
	}
	raw := siteURL
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		logging.Log.Debugf("SiteService: no favicon for unparseable url %q", siteURL)
		return ""
	}
	return fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=64", u.Hostname())
}
