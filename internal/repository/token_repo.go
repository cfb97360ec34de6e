// filepath: internal/repository/token_repo.go
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StoreRefreshToken saves the hash of a refresh token to the database.
func (s *Repository) StoreRefreshToken(userID int64, tokenHash string, expiry time.Time) error {
	_, err := s.DB.Exec(
		"INSERT INTO refresh_tokens (user_id, token_hash, expiry) VALUES (?, ?, ?)",
		userID, tokenHash, expiry)
	return err
}

// ValidateRefreshToken checks if a token hash exists and is not expired,
// returning the user ID.
func (s *Repository) ValidateRefreshToken(tokenHash string) (int64, error) {
	var userID int64
	err := s.DB.QueryRow(
		"SELECT user_id FROM refresh_tokens WHERE token_hash = ? AND expiry > ?",
		tokenHash, time.Now()).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("token not found or expired")
		}
		return 0, err
	}
	return userID, nil
}

// DeleteRefreshToken removes a specific refresh token hash.
func (s *Repository) DeleteRefreshToken(tokenHash string) error {
	_, err := s.DB.Exec("DELETE FROM refresh_tokens WHERE token_hash = ?", tokenHash)
	return err
}

// DeleteAllRefreshTokensForUser revokes all sessions for a specific user.
func (s *Repository) DeleteAllRefreshTokensForUser(userID int64) error {
	_, err := s.DB.Exec("DELETE FROM refresh_tokens WHERE user_id = ?", userID)
	return err
}
