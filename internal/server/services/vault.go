package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
	"github.com/vaultkeeper/vaultkeeper/internal/dbx"
	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/repomanager"
)

// VaultService handles vault lifecycle: creation with seeded default
// categories, partial updates, owner-only cascading deletion, and listings.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	access      *AccessService
}

// NewVaultService constructs a VaultService.
func NewVaultService(db *sql.DB, rm repomanager.RepositoryManager, access *AccessService) *VaultService {
	return &VaultService{db: db, repomanager: rm, access: access}
}

// Create inserts the vault and seeds the default category set in one
// transaction, so no reader ever observes a vault without its categories.
// Ownership itself is the owner's access grant; no grant row is written.
func (s *VaultService) Create(ctx context.Context, name string, description *string, isShared bool, ownerID int64) (*models.Vault, error) {
	vault := &models.Vault{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		IsShared:    isShared,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		vaultRepo := s.repomanager.Vaults(tx)
		if _, err := vaultRepo.Create(ctx, vault); err != nil {
			return err
		}

		categoryRepo := s.repomanager.Categories(tx)
		for _, d := range models.DefaultCategories {
			description := d.Description
			color := d.Color
			category := &models.Category{
				Name:        d.Name,
				Description: &description,
				Color:       &color,
				VaultID:     vault.ID,
			}
			if _, err := categoryRepo.Create(ctx, category); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating vault: %w", err)
	}
	return vault, nil
}

// Update applies a partial update. Requires admin or owner on the vault.
func (s *VaultService) Update(ctx context.Context, vaultID int64, patch models.VaultPatch, callerID int64) (*models.Vault, error) {
	if err := s.access.Require(ctx, vaultID, callerID, models.PermissionAdmin); err != nil {
		return nil, err
	}

	vaultRepo := s.repomanager.Vaults(s.db)
	vault, err := vaultRepo.GetByID(ctx, vaultID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		vault.Name = *patch.Name
	}
	if patch.DescriptionSet {
		vault.Description = patch.Description
	}
	if patch.IsShared != nil {
		vault.IsShared = *patch.IsShared
	}

	if err := vaultRepo.Update(ctx, vault); err != nil {
		return nil, err
	}
	return vault, nil
}

// Delete removes the vault and everything in it — items, categories, grants —
// in one transaction. Only the owner may delete; a missing vault and a vault
// owned by someone else both surface the same not-found failure so existence
// is not leaked to non-owners.
func (s *VaultService) Delete(ctx context.Context, vaultID, callerID int64) error {
	vaultRepo := s.repomanager.Vaults(s.db)
	vault, err := vaultRepo.GetByID(ctx, vaultID)
	if err != nil {
		return err
	}
	if vault.OwnerID != callerID {
		return common.ErrorNotFound
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Items(tx).DeleteByVault(ctx, vaultID); err != nil {
			return err
		}
		if err := s.repomanager.Categories(tx).DeleteByVault(ctx, vaultID); err != nil {
			return err
		}
		if err := s.repomanager.Permissions(tx).DeleteByVault(ctx, vaultID); err != nil {
			return err
		}
		return s.repomanager.Vaults(tx).Delete(ctx, vaultID)
	})
	if err != nil {
		return fmt.Errorf("error deleting vault: %w", err)
	}
	return nil
}

// GetByID returns the vault together with the caller's permission on it.
// Callers without any access get not-found, never forbidden.
func (s *VaultService) GetByID(ctx context.Context, vaultID, callerID int64) (*models.VaultWithPermission, error) {
	permission, err := s.access.PermissionFor(ctx, vaultID, callerID)
	if err != nil {
		return nil, err
	}
	if permission == models.PermissionNone {
		return nil, common.ErrorNotFound
	}

	vault, err := s.repomanager.Vaults(s.db).GetByID(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	return &models.VaultWithPermission{Vault: *vault, Permission: permission}, nil
}

// ListForUser returns the union of vaults the user owns (tagged owner) and
// vaults granted to the user (tagged with the grant's level). An owned vault
// appears once, through the ownership path.
func (s *VaultService) ListForUser(ctx context.Context, userID int64) ([]*models.VaultWithPermission, error) {
	vaultRepo := s.repomanager.Vaults(s.db)

	owned, err := vaultRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	granted, err := vaultRepo.ListGrantedTo(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.VaultWithPermission, 0, len(owned)+len(granted))
	for _, vault := range owned {
		result = append(result, &models.VaultWithPermission{Vault: *vault, Permission: models.PermissionOwner})
	}
	for _, v := range granted {
		// Owned vaults are never additionally granted; guard against the
		// anomaly anyway so a vault is listed at most once.
		if v.OwnerID == userID {
			continue
		}
		result = append(result, v)
	}
	return result, nil
}
