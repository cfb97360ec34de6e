// filepath: internal/services/mocks/user_mock.go
package mocks

import (
	"ranktrack/internal/config"
	"ranktrack/internal/models"
	"ranktrack/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockUserService is a mock implementation of services.UserService
type MockUserService struct {
	mock.Mock
}

var _ services.UserService = (*MockUserService)(nil)

func (m *MockUserService) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(id int64) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetUsers(actx *models.AuthContext) ([]models.User, error) {
	args := m.Called(actx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) CreateUser(actx *models.AuthContext, payload models.UserCreatePayload) (*models.User, error) {
	args := m.Called(actx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(actx *models.AuthContext, id int64, payload models.UserUpdatePayload) (*models.User, error) {
	args := m.Called(actx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(actx *models.AuthContext, id int64) error {
	args := m.Called(actx, id)
	return args.Error(0)
}

func (m *MockUserService) UpdateOwnPassword(actx *models.AuthContext, password string) error {
	args := m.Called(actx, password)
	return args.Error(0)
}

func (m *MockUserService) InitializeAdminUser(cfg *config.Config) error {
	args := m.Called(cfg)
	return args.Error(0)
}
