// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role is the system-wide user role, distinct from per-vault permissions.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an account holder. Users are soft-deactivated (IsActive=false)
// rather than deleted so vaults, items and grants keep valid references.
type User struct {
	ID           int64
	Email        string
	FullName     string
	Role         Role
	PasswordHash []byte
	PasswordSalt []byte
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
