// filepath: internal/services/group_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"ranktrack/internal/models"
	"ranktrack/internal/repository"
)

var _ GroupService = (*groupService)(nil)

// groupService manages keyword groups (tags) within a site. Every operation
// resolves the owning site first, then applies the site guard.
type groupService struct {
	Repo *repository.Repository
}

// NewGroupService creates a new GroupService.
func NewGroupService(repo *repository.Repository) *groupService {
	return &groupService{Repo: repo}
}

// CreateGroup creates a named group under the site.
func (s *groupService) CreateGroup(actx *models.AuthContext, siteID int64, name string) (*models.KeywordGroup, error) {
	if err := requireSiteAccess(actx, siteID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrValidation)
	}
	if _, err := s.Repo.GetSite(siteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("site %d: %w", siteID, ErrNotFound)
		}
		return nil, err
	}
	return s.Repo.CreateGroup(siteID, name)
}

// DeleteGroup removes a group; membership rows cascade.
func (s *groupService) DeleteGroup(actx *models.AuthContext, groupID int64) error {
	group, err := s.resolveGroup(actx, groupID)
	if err != nil {
		return err
	}
	return s.Repo.DeleteGroup(group.ID)
}

// AddKeywordsToGroup adds membership pairs. Keywords must belong to the
// group's site; pairs that already exist are ignored.
func (s *groupService) AddKeywordsToGroup(actx *models.AuthContext, groupID int64, keywordIDs []int64) error {
	group, err := s.resolveGroup(actx, groupID)
	if err != nil {
		return err
	}
	for _, kid := range keywordIDs {
		kw, err := s.Repo.GetKeyword(kid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("keyword %d: %w", kid, ErrNotFound)
			}
			return err
		}
		if kw.SiteID != group.SiteID {
			return fmt.Errorf("%w: keyword %d belongs to another site", ErrValidation, kid)
		}
	}
	return s.Repo.AddKeywordsToGroup(group.ID, keywordIDs)
}

// RemoveKeywordsFromGroup removes membership pairs.
func (s *groupService) RemoveKeywordsFromGroup(actx *models.AuthContext, groupID int64, keywordIDs []int64) error {
	group, err := s.resolveGroup(actx, groupID)
	if err != nil {
		return err
	}
	return s.Repo.RemoveKeywordsFromGroup(group.ID, keywordIDs)
}

// GetGroups returns the site's groups including their member keyword IDs.
func (s *groupService) GetGroups(actx *models.AuthContext, siteID int64) ([]models.KeywordGroup, error) {
	if err := requireSiteAccess(actx, siteID); err != nil {
		return nil, err
	}
	return s.Repo.GetGroupsBySite(siteID)
}

func (s *groupService) resolveGroup(actx *models.AuthContext, groupID int64) (*models.KeywordGroup, error) {
	group, err := s.Repo.GetGroup(groupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
		}
		return nil, err
	}
	if err := requireSiteAccess(actx, group.SiteID); err != nil {
		return nil, err
	}
	return group, nil
}
