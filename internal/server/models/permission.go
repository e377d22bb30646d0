package models

import "fmt"

// Permission is a totally ordered vault access level. Every permission check
// in the server goes through this type so the hierarchy is encoded exactly
// once: Owner > Admin > Write > Read > None.
type Permission string

const (
	PermissionNone  Permission = "none"
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
	PermissionAdmin Permission = "admin"
	PermissionOwner Permission = "owner"
)

var permissionRank = map[Permission]int{
	PermissionNone:  0,
	PermissionRead:  1,
	PermissionWrite: 2,
	PermissionAdmin: 3,
	PermissionOwner: 4,
}

// AtLeast reports whether p grants everything required grants.
func (p Permission) AtLeast(required Permission) bool {
	return permissionRank[p] >= permissionRank[required]
}

// Grantable reports whether p may appear in an explicit grant row. Ownership
// is implicit (owner_id on the vault) and None is the absence of a grant, so
// only Read, Write and Admin are storable.
func (p Permission) Grantable() bool {
	return p == PermissionRead || p == PermissionWrite || p == PermissionAdmin
}

// ParsePermission validates a wire-level permission string.
func ParsePermission(s string) (Permission, error) {
	p := Permission(s)
	if _, ok := permissionRank[p]; !ok {
		return "", fmt.Errorf("unknown permission %q", s)
	}
	return p, nil
}
