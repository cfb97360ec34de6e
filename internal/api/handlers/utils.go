// filepath: internal/api/handlers/utils.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"ranktrack/internal/models"
	"ranktrack/internal/services/auth"
)

// authContext pulls the request identity that the auth middleware attached.
func authContext(r *http.Request) *models.AuthContext {
	return auth.FromContext(r.Context())
}

// queryID parses a required int64 query parameter.
func queryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing query parameter %q", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid query parameter %q", name)
	}
	return id, nil
}
