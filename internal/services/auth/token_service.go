// filepath: internal/services/auth/token_service.go
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"ranktrack/internal/config"
	"ranktrack/internal/models"
	"ranktrack/internal/repository"
	"ranktrack/internal/services"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and validates the access/refresh token pair.
type TokenService interface {
	GenerateTokens(user *models.User) (string, string, error)
	ValidateAccessToken(tokenString string) (*models.User, error)
	ValidateRefreshToken(tokenString string) (*models.User, error)
	Logout(refreshToken string) error
}

// accessClaims defines the custom claims for the short-lived access token.
type accessClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// refreshClaims defines the claims for the long-lived, stateful refresh token.
type refreshClaims struct {
	jwt.RegisteredClaims
}

var _ TokenService = (*tokenService)(nil)

type tokenService struct {
	cfg     *config.Config
	userSvc services.UserService
	repo    *repository.Repository
}

// NewTokenService creates a new instance of the tokenService.
func NewTokenService(cfg *config.Config, userSvc services.UserService, repo *repository.Repository) TokenService {
	return &tokenService{cfg: cfg, userSvc: userSvc, repo: repo}
}

// hashToken hashes a token string (SHA-256) for database storage.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// GenerateTokens creates, signs and stores a new token pair.
func (s *tokenService) GenerateTokens(user *models.User) (string, string, error) {
	accessExpiry := time.Now().Add(time.Minute * time.Duration(s.cfg.JWT.AccessDurationMin))
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, &accessClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(accessExpiry),
			Issuer:    "ranktrack",
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	})
	signedAccess, err := access.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshExpiry := time.Now().Add(time.Hour * time.Duration(s.cfg.JWT.RefreshDurationHours))
	jtiBytes := make([]byte, 16)
	if _, err := rand.Read(jtiBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate token id: %w", err)
	}
	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, &refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(refreshExpiry),
			Issuer:    "ranktrack",
			Subject:   fmt.Sprintf("%d", user.ID),
			ID:        hex.EncodeToString(jtiBytes),
		},
	})
	signedRefresh, err := refresh.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	// Only the hash of the refresh token is persisted; the token itself never
	// touches the database.
	if err := s.repo.StoreRefreshToken(user.ID, hashToken(signedRefresh), refreshExpiry); err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return signedAccess, signedRefresh, nil
}

// ValidateAccessToken checks an access token (stateless) and returns the
// associated user.
func (s *tokenService) ValidateAccessToken(tokenString string) (*models.User, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err // covers expiry as well
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}

	user, err := s.userSvc.GetUserByUsername(claims.Username)
	if err != nil {
		return nil, errors.New("user not found for token")
	}
	return user, nil
}

// ValidateRefreshToken checks a refresh token's signature and then the
// database allow-list, so a logged-out token fails even before expiry.
func (s *tokenService) ValidateRefreshToken(tokenString string) (*models.User, error) {
	claims := &refreshClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid refresh token signature or claims")
	}

	userID, err := s.repo.ValidateRefreshToken(hashToken(tokenString))
	if err != nil {
		return nil, fmt.Errorf("token not found in database (revoked or expired): %w", err)
	}

	user, err := s.userSvc.GetUserByID(userID)
	if err != nil {
		return nil, errors.New("user not found for valid token")
	}
	return user, nil
}

// Logout invalidates a refresh token by deleting its hash from the database.
func (s *tokenService) Logout(refreshToken string) error {
	return s.repo.DeleteRefreshToken(hashToken(refreshToken))
}
