// filepath: internal/services/lookup_service.go
package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"ranktrack/internal/logging"
	"ranktrack/internal/lookup"
	"ranktrack/internal/models"
)

var _ LookupService = (*lookupService)(nil)

// lookupService queries the external rank-lookup provider for a keyword,
// finds the target site among the hits and records the observation through
// single-record ingestion for the current month.
type lookupService struct {
	Provider lookup.Provider
	Sites    SiteService
	Ingest   IngestService
}

// NewLookupService creates a new LookupService.
func NewLookupService(provider lookup.Provider, sites SiteService, ingest IngestService) *lookupService {
	return &lookupService{Provider: provider, Sites: sites, Ingest: ingest}
}

// FetchLatestRankings queries the provider for the keyword and matches the
// hits against targetURL, falling back to the site's own URL when no target
// is given. The observed position (or its absence) is ingested for the
// current month, then returned. A keyword not found among the hits yields a
// nil result with a nil-position ingestion.
func (s *lookupService) FetchLatestRankings(ctx context.Context, actx *models.AuthContext, siteID int64, keyword, targetURL string) (*models.LookupResult, error) {
	if err := requireSiteAccess(actx, siteID); err != nil {
		return nil, err
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: keyword is required", ErrValidation)
	}

	site, err := s.Sites.GetSite(actx, siteID)
	if err != nil {
		return nil, err
	}
	target := targetURL
	if target == "" {
		target = site.URL
	}
	host := normalizeHost(target)
	if host == "" {
		return nil, fmt.Errorf("%w: no target URL to match against", ErrValidation)
	}

	hits, err := s.Provider.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}

	month := models.CurrentMonth()
	for _, hit := range hits {
		if !hostMatches(host, normalizeHost(hit.URL)) {
			continue
		}
		pos := hit.Position
		if err := s.Ingest.IngestOne(actx, siteID, keyword, month, &pos, hit.URL, false); err != nil {
			return nil, err
		}
		logging.Log.Infof("LookupService: %q ranks %d for site %d", keyword, pos, siteID)
		return &models.LookupResult{Position: pos, URL: hit.URL}, nil
	}

	// Not found in the observed result set: record the month as out of range.
	if err := s.Ingest.IngestOne(actx, siteID, keyword, month, nil, "", false); err != nil {
		return nil, err
	}
	logging.Log.Infof("LookupService: %q not found for site %d", keyword, siteID)
	return nil, nil
}

// normalizeHost extracts the hostname from a URL or bare domain and strips a
// leading "www.".
func normalizeHost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// hostMatches reports whether a hit's host is the target host or one of its
// subdomains.
func hostMatches(target, hit string) bool {
	if target == "" || hit == "" {
		return false
	}
	return hit == target || strings.HasSuffix(hit, "."+target)
}
