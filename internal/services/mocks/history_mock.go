// filepath: internal/services/mocks/history_mock.go
package mocks

import (
	"context"
	"io"

	"ranktrack/internal/models"
	"ranktrack/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockHistoryService is a mock implementation of services.HistoryService
type MockHistoryService struct {
	mock.Mock
}

var _ services.HistoryService = (*MockHistoryService)(nil)

func (m *MockHistoryService) GetHistory(actx *models.AuthContext, siteID int64) ([]models.KeywordHistory, error) {
	args := m.Called(actx, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.KeywordHistory), args.Error(1)
}

func (m *MockHistoryService) ExportCSV(ctx context.Context, actx *models.AuthContext, siteID int64, w io.Writer) error {
	args := m.Called(ctx, actx, siteID, w)
	return args.Error(0)
}
