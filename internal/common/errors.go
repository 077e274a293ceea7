// Package common defines shared constants and sentinel errors used across
// the editor client and the course server. Callers should use errors.Is to
// match these values.
package common

import "errors"

// AccessTokenHeaderName is the gRPC metadata key used to carry the access
// token on outbound requests.
const AccessTokenHeaderName = "access_token"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorInvalidInput = errors.New("invalid input")
	ErrorConflict     = errors.New("already exists")

	// Content errors.
	ErrorInvalidSnapshot = errors.New("invalid snapshot")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
