// filepath: internal/services/user_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"ranktrack/internal/config"
	"ranktrack/internal/logging"
	"ranktrack/internal/models"
	"ranktrack/internal/repository"
)

var _ UserService = (*userService)(nil)

// userService implements account and grant management. All mutating
// operations except UpdateOwnPassword are admin only.
type userService struct {
	Repo *repository.Repository
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository) *userService {
	return &userService{Repo: repo}
}

// GetUserByUsername is used by the token issuing flow and is not guarded.
func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	user, err := s.Repo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID is used by the auth middleware to rebuild the request identity.
func (s *userService) GetUserByID(id int64) (*models.User, error) {
	user, err := s.Repo.GetUserByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// GetUsers lists all accounts with their grants. Admin only.
func (s *userService) GetUsers(actx *models.AuthContext) ([]models.User, error) {
	if err := requireAdmin(actx); err != nil {
		return nil, err
	}
	return s.Repo.GetUsers()
}

// CreateUser creates an account. Clients receive the site grants from the
// payload; grants on an admin payload are rejected as a mistake.
func (s *userService) CreateUser(actx *models.AuthContext, payload models.UserCreatePayload) (*models.User, error) {
	if err := requireAdmin(actx); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	if payload.Role != models.RoleAdmin && payload.Role != models.RoleClient {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, payload.Role)
	}
	if payload.Role == models.RoleAdmin && len(payload.SiteIDs) > 0 {
		return nil, fmt.Errorf("%w: admins carry no site grants", ErrValidation)
	}

	user, err := s.Repo.CreateUser(&repository.UserCreateArgs{
		Username: username,
		Password: payload.Password,
		Role:     payload.Role,
		SiteIDs:  payload.SiteIDs,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, fmt.Errorf("user %q: %w", username, ErrConflict)
		}
		return nil, err
	}
	logging.Log.Infof("UserService: created user %q (role %s)", user.Username, user.Role)
	return user, nil
}

// UpdateUser changes role, grants or password. Demoting the last remaining
// admin is rejected.
func (s *userService) UpdateUser(actx *models.AuthContext, id int64, payload models.UserUpdatePayload) (*models.User, error) {
	if err := requireAdmin(actx); err != nil {
		return nil, err
	}
	user, err := s.Repo.GetUserByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	updated := *user
	updated.PasswordHash = ""
	replaceGrants := false

	if payload.Role != nil {
		if *payload.Role != models.RoleAdmin && *payload.Role != models.RoleClient {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, *payload.Role)
		}
		if user.Role == models.RoleAdmin && *payload.Role != models.RoleAdmin {
			if err := s.ensureNotLastAdmin(user.ID); err != nil {
				return nil, err
			}
		}
		updated.Role = *payload.Role
		replaceGrants = true
	}
	if payload.SiteIDs != nil {
		updated.SiteIDs = *payload.SiteIDs
		replaceGrants = true
	}
	if payload.Password != nil {
		if *payload.Password == "" {
			return nil, fmt.Errorf("%w: password must not be empty", ErrValidation)
		}
		// UpdateUser hashes a non-empty PasswordHash as a new password.
		updated.PasswordHash = *payload.Password
	}

	if err := s.Repo.UpdateUser(&updated, replaceGrants); err != nil {
		return nil, err
	}
	return s.Repo.GetUserByID(id)
}

// DeleteUser removes an account. The last remaining admin cannot be deleted.
func (s *userService) DeleteUser(actx *models.AuthContext, id int64) error {
	if err := requireAdmin(actx); err != nil {
		return err
	}
	user, err := s.Repo.GetUserByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return err
	}
	if user.IsAdmin() {
		if err := s.ensureNotLastAdmin(user.ID); err != nil {
			return err
		}
	}
	if err := s.Repo.DeleteUser(id); err != nil {
		return err
	}
	if err := s.Repo.DeleteAllRefreshTokensForUser(id); err != nil {
		logging.Log.Warnf("UserService: failed to revoke sessions for deleted user %d: %v", id, err)
	}
	logging.Log.Infof("UserService: deleted user %q", user.Username)
	return nil
}

// UpdateOwnPassword changes the calling user's own password.
func (s *userService) UpdateOwnPassword(actx *models.AuthContext, password string) error {
	if actx == nil {
		return ErrNotAuthenticated
	}
	if password == "" {
		return fmt.Errorf("%w: password must not be empty", ErrValidation)
	}
	return s.Repo.UpdateUserPassword(actx.Username, password)
}

// InitializeAdminUser ensures an initial admin account exists. On first run
// it creates "admin" with the configured bootstrap password; with the reset
// flag set it overwrites the existing admin password instead.
func (s *userService) InitializeAdminUser(cfg *config.Config) error {
	exists, err := s.Repo.UserExists("admin")
	if err != nil {
		return err
	}

	if !exists {
		if cfg.AdminPassword == "" {
			return fmt.Errorf("no admin user exists and no bootstrap password configured")
		}
		_, err := s.Repo.CreateUser(&repository.UserCreateArgs{
			Username: "admin",
			Password: cfg.AdminPassword,
			Role:     models.RoleAdmin,
		})
		if err != nil {
			return err
		}
		logging.Log.Info("UserService: initial admin user created")
		return nil
	}

	if cfg.ResetAdminPassword {
		if cfg.AdminPassword == "" {
			return fmt.Errorf("admin password reset requested but no password configured")
		}
		if err := s.Repo.UpdateUserPassword("admin", cfg.AdminPassword); err != nil {
			return err
		}
		logging.Log.Warn("UserService: admin password was reset")
	}
	return nil
}

func (s *userService) ensureNotLastAdmin(userID int64) error {
	admins, err := s.Repo.GetAdminUsers()
	if err != nil {
		return err
	}
	for _, a := range admins {
		if a.ID != userID {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot remove the last admin", ErrValidation)
}
