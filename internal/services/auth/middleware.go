// filepath: internal/services/auth/middleware.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ranktrack/internal/logging"
	"ranktrack/internal/models"
	"ranktrack/internal/services"

	"golang.org/x/crypto/bcrypt"
)

// contextKey is an unexported type so nothing outside this package can
// collide with the identity key.
type contextKey int

const authContextKey contextKey = iota

// FromContext returns the AuthContext placed by the middleware, or nil when
// the request never passed authentication.
func FromContext(ctx context.Context) *models.AuthContext {
	actx, _ := ctx.Value(authContextKey).(*models.AuthContext)
	return actx
}

// WithAuthContext stores an AuthContext on a context. Exported for handler
// tests.
func WithAuthContext(ctx context.Context, actx *models.AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, actx)
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Middleware provides authentication and authorization middleware.
type Middleware struct {
	User  services.UserService
	Token TokenService
}

// NewMiddleware creates a new instance of Middleware.
func NewMiddleware(user services.UserService, token TokenService) *Middleware {
	return &Middleware{User: user, Token: token}
}

// AuthMiddleware accepts a JWT Bearer token or Basic Auth, resolves the user
// and attaches an AuthContext to the request. Everything downstream reads
// identity exclusively from that context.
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			w.Header().Set("WWW-Authenticate", `Basic realm="restricted", Bearer realm="restricted"`)
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		var user *models.User
		var err error

		switch {
		case strings.HasPrefix(authHeader, "Bearer "):
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			user, err = m.Token.ValidateAccessToken(tokenString)
			if err != nil {
				logging.Log.Warnf("AuthMiddleware: invalid Bearer token: %v", err)
				if strings.Contains(err.Error(), "expired") {
					writeError(w, http.StatusUnauthorized, "Token expired")
				} else {
					writeError(w, http.StatusUnauthorized, "Invalid token")
				}
				return
			}
		case strings.HasPrefix(authHeader, "Basic "):
			username, password, ok := r.BasicAuth()
			if !ok {
				writeError(w, http.StatusUnauthorized, "Invalid Basic Auth header")
				return
			}
			user, err = m.validateBasicAuth(username, password)
			if err != nil {
				logging.Log.Warnf("AuthMiddleware: invalid Basic Auth: %v", err)
				writeError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
		default:
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		actx := &models.AuthContext{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
			SiteIDs:  user.SiteIDs,
		}
		next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), actx)))
	})
}

func (m *Middleware) validateBasicAuth(username, password string) (*models.User, error) {
	user, err := m.User.GetUserByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("user '%s' not found", username)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("password comparison failed for user '%s'", username)
	}
	return user, nil
}

// RequireRole rejects requests whose AuthContext does not carry the given
// role.
func (m *Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actx := FromContext(r.Context())
			if actx == nil {
				logging.Log.Warnf("RequireRole: no identity in context for %s", r.URL.Path)
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			if actx.Role != role {
				logging.Log.Warnf("RequireRole: access denied for %q (needs %s) on %s", actx.Username, role, r.URL.Path)
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
