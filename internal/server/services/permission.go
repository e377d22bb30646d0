package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/repomanager"
)

// PermissionService manages explicit vault access grants. Granting,
// updating and revoking all require admin or owner on the vault; the guards
// against self-modification and owner-grant tampering live here.
type PermissionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	access      *AccessService
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(db *sql.DB, rm repomanager.RepositoryManager, access *AccessService) *PermissionService {
	return &PermissionService{db: db, repomanager: rm, access: access}
}

// Grant creates a new explicit grant on the vault for the target user,
// stamped with the caller as granter. The target must exist and be active;
// a second grant for the same (vault, user) pair fails with
// common.ErrorDuplicateGrant — the unique constraint decides the loser under
// concurrency.
func (s *PermissionService) Grant(ctx context.Context, vaultID, targetUserID int64, level models.Permission, callerID int64) (*models.VaultUserPermission, error) {
	if !level.Grantable() {
		return nil, fmt.Errorf("permission %q is not grantable", level)
	}
	if err := s.access.Require(ctx, vaultID, callerID, models.PermissionAdmin); err != nil {
		return nil, err
	}

	target, err := s.repomanager.Users(s.db).GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("target user: %w", common.ErrorNotFound)
		}
		return nil, err
	}
	if !target.IsActive {
		return nil, common.ErrorTargetInactive
	}

	grant := &models.VaultUserPermission{
		VaultID:    vaultID,
		UserID:     targetUserID,
		Permission: level,
		GrantedBy:  callerID,
	}
	return s.repomanager.Permissions(s.db).Create(ctx, grant)
}

// Update changes a grant's level. Callers may never modify their own grant,
// even with admin — that would allow privilege self-escalation.
func (s *PermissionService) Update(ctx context.Context, grantID int64, newLevel models.Permission, callerID int64) (*models.VaultUserPermission, error) {
	if !newLevel.Grantable() {
		return nil, fmt.Errorf("permission %q is not grantable", newLevel)
	}

	grantRepo := s.repomanager.Permissions(s.db)
	grant, err := grantRepo.GetByID(ctx, grantID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, grant.VaultID, callerID, models.PermissionAdmin); err != nil {
		return nil, err
	}
	if grant.UserID == callerID {
		return nil, common.ErrorSelfModification
	}

	if err := grantRepo.UpdatePermission(ctx, grantID, newLevel); err != nil {
		return nil, err
	}
	grant.Permission = newLevel
	return grant, nil
}

// Revoke deletes a grant row. Ownership is not a grant row to begin with;
// the owner check guards against a data-integrity anomaly where one exists.
func (s *PermissionService) Revoke(ctx context.Context, grantID, callerID int64) error {
	grantRepo := s.repomanager.Permissions(s.db)
	grant, err := grantRepo.GetByID(ctx, grantID)
	if err != nil {
		return err
	}
	if err := s.access.Require(ctx, grant.VaultID, callerID, models.PermissionAdmin); err != nil {
		return err
	}

	vault, err := s.repomanager.Vaults(s.db).GetByID(ctx, grant.VaultID)
	if err != nil {
		return err
	}
	if vault.OwnerID == grant.UserID {
		return common.ErrorOwnerGrantProtected
	}

	return grantRepo.Delete(ctx, grantID)
}

// ListForVault returns the vault's explicit grants. The owner's implicit
// access is not a row and is not included.
func (s *PermissionService) ListForVault(ctx context.Context, vaultID, callerID int64) ([]*models.VaultUserPermission, error) {
	if err := s.access.Require(ctx, vaultID, callerID, models.PermissionAdmin); err != nil {
		return nil, err
	}
	return s.repomanager.Permissions(s.db).ListByVault(ctx, vaultID)
}

// PermissionFor exposes the caller's own effective level on a vault.
func (s *PermissionService) PermissionFor(ctx context.Context, vaultID, userID int64) (models.Permission, error) {
	return s.access.PermissionFor(ctx, vaultID, userID)
}
