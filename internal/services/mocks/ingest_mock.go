// filepath: internal/services/mocks/ingest_mock.go
package mocks

import (
	"ranktrack/internal/models"
	"ranktrack/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockIngestService is a mock implementation of services.IngestService
type MockIngestService struct {
	mock.Mock
}

var _ services.IngestService = (*MockIngestService)(nil)

func (m *MockIngestService) IngestBatch(actx *models.AuthContext, siteID int64, records []models.RankRecord) (*models.IngestReport, error) {
	args := m.Called(actx, siteID, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IngestReport), args.Error(1)
}

func (m *MockIngestService) IngestOne(actx *models.AuthContext, siteID int64, keyword, month string, position *int, url string, isAIOverview bool) error {
	args := m.Called(actx, siteID, keyword, month, position, url, isAIOverview)
	return args.Error(0)
}

func (m *MockIngestService) DeleteRankingsForMonth(actx *models.AuthContext, siteID int64, month string) (int64, error) {
	args := m.Called(actx, siteID, month)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIngestService) DeleteAllData(actx *models.AuthContext, siteID int64) error {
	args := m.Called(actx, siteID)
	return args.Error(0)
}

func (m *MockIngestService) DeleteKeyword(actx *models.AuthContext, keywordID int64) error {
	args := m.Called(actx, keywordID)
	return args.Error(0)
}
