// filepath: internal/services/mocks/lookup_mock.go
package mocks

import (
	"context"

	"ranktrack/internal/models"
	"ranktrack/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockLookupService is a mock implementation of services.LookupService
type MockLookupService struct {
	mock.Mock
}

var _ services.LookupService = (*MockLookupService)(nil)

func (m *MockLookupService) FetchLatestRankings(ctx context.Context, actx *models.AuthContext, siteID int64, keyword, targetURL string) (*models.LookupResult, error) {
	args := m.Called(ctx, actx, siteID, keyword, targetURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LookupResult), args.Error(1)
}
