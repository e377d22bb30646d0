package models

import "time"

// Vault is a named container scoping categories, credential items and access
// grants. OwnerID is the vault's foundational access grant; IsShared is
// advisory only and does not itself grant access.
type Vault struct {
	ID          int64
	Name        string
	Description *string
	OwnerID     int64
	IsShared    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VaultWithPermission pairs a vault with the caller's effective access level,
// as returned by vault listings.
type VaultWithPermission struct {
	Vault
	Permission Permission
}

// VaultPatch carries a partial vault update. Nil pointers mean "leave
// untouched". Description is applied only when DescriptionSet is true; a nil
// Description with DescriptionSet clears the stored value.
type VaultPatch struct {
	Name           *string
	Description    *string
	DescriptionSet bool
	IsShared       *bool
}
