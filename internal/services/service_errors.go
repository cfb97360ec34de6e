// filepath: internal/services/service_errors.go
package services

import "errors"

// Standard errors returned by the service layer.
var (
	// ErrNotAuthenticated means no identity could be resolved for the call.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrForbidden means the caller is authenticated but not entitled to the
	// target site.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation covers malformed months, missing fields and bad URLs.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means a referenced site, keyword or group does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness constraint other than an expected
	// upsert conflict was violated.
	ErrConflict = errors.New("conflict")
	// ErrPartialIngest means keyword metadata was committed but the ranking
	// rows were not. Retrying the identical batch is safe and completes the
	// missing half, because both ingestion steps are idempotent upserts.
	ErrPartialIngest = errors.New("partial ingestion failure")
)
