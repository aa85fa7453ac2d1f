// Package common defines shared constants and sentinel errors used across
// the passport service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic flow control at the trust boundary).
	ErrorInternal           = errors.New("internal error")
	ErrorInvalidInput       = errors.New("invalid input")
	ErrorInvalidCredentials = errors.New("invalid email or password")
	ErrorUnauthorized       = errors.New("unauthorized")

	// Token lifecycle errors. Validation distinguishes these so that a
	// caller can tell an expired token from a forged one, but never which
	// internal credential check failed.
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrWrongTokenType   = errors.New("wrong token type")
)
