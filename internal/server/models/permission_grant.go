package models

import "time"

// VaultUserPermission is an explicit (vault, user, permission) grant row.
// At most one row exists per (VaultID, UserID) pair, enforced by a unique
// constraint in storage. The vault owner never holds a row: ownership is
// implicit and non-revocable.
type VaultUserPermission struct {
	ID         int64
	VaultID    int64
	UserID     int64
	Permission Permission
	GrantedBy  int64
	CreatedAt  time.Time
}
