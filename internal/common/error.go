// Package common defines shared constants and sentinel errors used across
// VaultKeeper components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Access-control errors.
	ErrorInsufficientPermission = errors.New("insufficient permission")

	// Grant lifecycle errors.
	ErrorDuplicateGrant      = errors.New("permission already granted")
	ErrorTargetInactive      = errors.New("target user is deactivated")
	ErrorSelfModification    = errors.New("cannot modify own permission")
	ErrorOwnerGrantProtected = errors.New("owner access cannot be revoked")

	// Data-integrity errors (stored ciphertext that cannot be decrypted).
	ErrorIntegrity = errors.New("data integrity error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
