// filepath: internal/repository/user_repo.go
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ranktrack/internal/logging"
	"ranktrack/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// ErrUserExists is returned when trying to create a user that already exists.
var ErrUserExists = errors.New("user already exists")

// UserCreateArgs is used for creating users in the database layer. It is
// separate from models.User to carry the plaintext password for hashing.
type UserCreateArgs struct {
	Username string
	Password string
	Role     string
	SiteIDs  []int64
}

// GetUserByUsername retrieves a user (including site grants) by username,
// using a cache for performance.
func (s *Repository) GetUserByUsername(username string) (*models.User, error) {
	cacheKey := fmt.Sprintf("user_by_name_%s", username)
	if user, found := s.Cache.Get(cacheKey); found {
		return user.(*models.User), nil
	}

	logging.Log.Debugf("GetUserByUsername: CACHE MISS for '%s'. Querying DB.", username)
	row := s.DB.QueryRow(
		"SELECT id, username, password_hash, role FROM users WHERE username = ?", username)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.loadSiteGrants(&user); err != nil {
		return nil, err
	}

	s.Cache.Set(cacheKey, &user, 5*time.Minute)
	s.Cache.Set(fmt.Sprintf("user_by_id_%d", user.ID), &user, 5*time.Minute)
	return &user, nil
}

// GetUserByID retrieves a user (including site grants) by ID, using a cache
// for performance.
func (s *Repository) GetUserByID(id int64) (*models.User, error) {
	cacheKey := fmt.Sprintf("user_by_id_%d", id)
	if user, found := s.Cache.Get(cacheKey); found {
		return user.(*models.User), nil
	}

	logging.Log.Debugf("GetUserByID: CACHE MISS for ID %d. Querying DB.", id)
	row := s.DB.QueryRow(
		"SELECT id, username, password_hash, role FROM users WHERE id = ?", id)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.loadSiteGrants(&user); err != nil {
		return nil, err
	}

	s.Cache.Set(cacheKey, &user, 5*time.Minute)
	s.Cache.Set(fmt.Sprintf("user_by_name_%s", user.Username), &user, 5*time.Minute)
	return &user, nil
}

// loadSiteGrants fills in the granted site IDs for client users. Admins
// implicitly access all sites and carry no grant rows.
func (s *Repository) loadSiteGrants(user *models.User) error {
	if user.Role == models.RoleAdmin {
		return nil
	}
	rows, err := s.DB.Query("SELECT site_id FROM user_sites WHERE user_id = ? ORDER BY site_id", user.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var siteID int64
		if err := rows.Scan(&siteID); err != nil {
			return err
		}
		user.SiteIDs = append(user.SiteIDs, siteID)
	}
	return rows.Err()
}

// UserExists checks if a user with the given username exists.
func (s *Repository) UserExists(username string) (bool, error) {
	_, err := s.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateUser creates a new user and its site grants.
func (s *Repository) CreateUser(args *UserCreateArgs) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(args.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)",
		args.Username, string(hashedPassword), args.Role,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrUserExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if args.Role == models.RoleClient {
		for _, siteID := range args.SiteIDs {
			if _, err := tx.Exec(
				"INSERT INTO user_sites (user_id, site_id) VALUES (?, ?) ON CONFLICT(user_id, site_id) DO NOTHING",
				id, siteID); err != nil {
				return nil, err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	logging.Log.Debugf("CreateUser: User '%s' created with ID %d (role %s)", args.Username, id, args.Role)
	return &models.User{
		ID:           id,
		Username:     args.Username,
		PasswordHash: string(hashedPassword),
		Role:         args.Role,
		SiteIDs:      args.SiteIDs,
	}, nil
}

// UpdateUser updates a user's role, site grants and optionally the password.
// A non-empty PasswordHash on the input is treated as a new plaintext
// password to hash; grants are replaced wholesale when replaceGrants is set.
func (s *Repository) UpdateUser(user *models.User, replaceGrants bool) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE users SET role = ? WHERE id = ?", user.Role, user.ID); err != nil {
		return err
	}

	if user.PasswordHash != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := tx.Exec("UPDATE users SET password_hash = ? WHERE id = ?", string(hashedPassword), user.ID); err != nil {
			return err
		}
	}

	if replaceGrants {
		if _, err := tx.Exec("DELETE FROM user_sites WHERE user_id = ?", user.ID); err != nil {
			return err
		}
		if user.Role == models.RoleClient {
			for _, siteID := range user.SiteIDs {
				if _, err := tx.Exec(
					"INSERT INTO user_sites (user_id, site_id) VALUES (?, ?) ON CONFLICT(user_id, site_id) DO NOTHING",
					user.ID, siteID); err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.invalidateUserCache(user.Username, user.ID)
	return nil
}

// UpdateUserPassword updates a single user's password.
func (s *Repository) UpdateUserPassword(username, password string) error {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return err
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := s.DB.Exec("UPDATE users SET password_hash = ? WHERE id = ?", string(hashedPassword), user.ID); err != nil {
		return err
	}
	s.invalidateUserCache(user.Username, user.ID)
	return nil
}

// GetUsers retrieves all users including their site grants.
func (s *Repository) GetUsers() ([]models.User, error) {
	rows, err := s.DB.Query("SELECT id, username, password_hash, role FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range users {
		if err := s.loadSiteGrants(&users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// GetAdminUsers retrieves all users with the admin role.
func (s *Repository) GetAdminUsers() ([]models.User, error) {
	rows, err := s.DB.Query("SELECT id, username, password_hash, role FROM users WHERE role = ?", models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Role); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// DeleteUser deletes a user by ID. Grants and refresh tokens cascade.
func (s *Repository) DeleteUser(id int64) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	if _, err := s.DB.Exec("DELETE FROM users WHERE id = ?", id); err != nil {
		return err
	}
	s.invalidateUserCache(user.Username, id)
	return nil
}

func (s *Repository) invalidateUserCache(username string, id int64) {
	s.Cache.Delete(fmt.Sprintf("user_by_name_%s", username))
	s.Cache.Delete(fmt.Sprintf("user_by_id_%d", id))
}
