// filepath: internal/services/mocks/site_mock.go
package mocks

import (
	"ranktrack/internal/models"
	"ranktrack/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockSiteService is a mock implementation of services.SiteService
type MockSiteService struct {
	mock.Mock
}

var _ services.SiteService = (*MockSiteService)(nil)

func (m *MockSiteService) GetSites(actx *models.AuthContext) ([]models.Site, error) {
	args := m.Called(actx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Site), args.Error(1)
}

func (m *MockSiteService) GetSite(actx *models.AuthContext, id int64) (*models.Site, error) {
	args := m.Called(actx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Site), args.Error(1)
}

func (m *MockSiteService) CreateSite(actx *models.AuthContext, payload models.SiteCreatePayload) (*models.Site, error) {
	args := m.Called(actx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Site), args.Error(1)
}

func (m *MockSiteService) UpdateSite(actx *models.AuthContext, id int64, payload models.SiteUpdatePayload) (*models.Site, error) {
	args := m.Called(actx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Site), args.Error(1)
}

func (m *MockSiteService) DeleteSite(actx *models.AuthContext, id int64) error {
	args := m.Called(actx, id)
	return args.Error(0)
}
