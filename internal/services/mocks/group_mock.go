// filepath: internal/services/mocks/group_mock.go
package mocks

import (
	"ranktrack/internal/models"
	"ranktrack/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockGroupService is a mock implementation of services.GroupService
type MockGroupService struct {
	mock.Mock
}

var _ services.GroupService = (*MockGroupService)(nil)

func (m *MockGroupService) CreateGroup(actx *models.AuthContext, siteID int64, name string) (*models.KeywordGroup, error) {
	args := m.Called(actx, siteID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.KeywordGroup), args.Error(1)
}

func (m *MockGroupService) DeleteGroup(actx *models.AuthContext, groupID int64) error {
	args := m.Called(actx, groupID)
	return args.Error(0)
}

func (m *MockGroupService) AddKeywordsToGroup(actx *models.AuthContext, groupID int64, keywordIDs []int64) error {
	args := m.Called(actx, groupID, keywordIDs)
	return args.Error(0)
}

func (m *MockGroupService) RemoveKeywordsFromGroup(actx *models.AuthContext, groupID int64, keywordIDs []int64) error {
	args := m.Called(actx, groupID, keywordIDs)
	return args.Error(0)
}

func (m *MockGroupService) GetGroups(actx *models.AuthContext, siteID int64) ([]models.KeywordGroup, error) {
	args := m.Called(actx, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.KeywordGroup), args.Error(1)
}
