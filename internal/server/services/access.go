// Package services contains the server-side business logic: vault access
// evaluation, vault/category/item lifecycle, permission grants, and user
// accounts. Every vault-scoped operation resolves the caller's permission
// through AccessService before touching storage or the field cipher.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/repomanager"
)

// AccessService is the single place the permission hierarchy is evaluated.
// It is read-only and safe for concurrent use.
type AccessService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewAccessService constructs an AccessService over the given database and
// repositories.
func NewAccessService(db *sql.DB, rm repomanager.RepositoryManager) *AccessService {
	return &AccessService{db: db, repomanager: rm}
}

// PermissionFor resolves the caller's effective permission on a vault:
// PermissionOwner when the vault's owner_id matches (checked first, taking
// precedence over any grant row), otherwise the explicit grant's level, or
// PermissionNone when no grant exists. Fails with common.ErrorNotFound when
// the vault does not exist.
func (s *AccessService) PermissionFor(ctx context.Context, vaultID, userID int64) (models.Permission, error) {
	vaultRepo := s.repomanager.Vaults(s.db)

	vault, err := vaultRepo.GetByID(ctx, vaultID)
	if err != nil {
		return models.PermissionNone, err
	}
	if vault.OwnerID == userID {
		return models.PermissionOwner, nil
	}

	grantRepo := s.repomanager.Permissions(s.db)
	grant, err := grantRepo.GetByVaultAndUser(ctx, vaultID, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.PermissionNone, nil
		}
		return models.PermissionNone, err
	}
	return grant.Permission, nil
}

// Require resolves the caller's permission and fails with
// common.ErrorInsufficientPermission when it is below required. Vault
// absence propagates as common.ErrorNotFound.
func (s *AccessService) Require(ctx context.Context, vaultID, userID int64, required models.Permission) error {
	permission, err := s.PermissionFor(ctx, vaultID, userID)
	if err != nil {
		return err
	}
	if !permission.AtLeast(required) {
		return common.ErrorInsufficientPermission
	}
	return nil
}
