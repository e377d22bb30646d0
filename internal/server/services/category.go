package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vaultkeeper/vaultkeeper/internal/dbx"
	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/repomanager"
)

// CategoryService manages the non-sensitive grouping labels within a vault,
// gated by the same access evaluator as items: write for mutation, read for
// reads.
type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	access      *AccessService
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(db *sql.DB, rm repomanager.RepositoryManager, access *AccessService) *CategoryService {
	return &CategoryService{db: db, repomanager: rm, access: access}
}

// Create adds a category to the vault. Requires write or better.
func (s *CategoryService) Create(ctx context.Context, category *models.Category, callerID int64) (*models.Category, error) {
	if err := s.access.Require(ctx, category.VaultID, callerID, models.PermissionWrite); err != nil {
		return nil, err
	}
	return s.repomanager.Categories(s.db).Create(ctx, category)
}

// Update applies a partial update. Requires write or better on the
// category's vault.
func (s *CategoryService) Update(ctx context.Context, id int64, patch models.CategoryPatch, callerID int64) (*models.Category, error) {
	categoryRepo := s.repomanager.Categories(s.db)

	category, err := categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, category.VaultID, callerID, models.PermissionWrite); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		category.Name = *patch.Name
	}
	if patch.DescriptionSet {
		category.Description = patch.Description
	}
	if patch.ColorSet {
		category.Color = patch.Color
	}

	if err := categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetByID returns the category. Requires read or better on its vault.
func (s *CategoryService) GetByID(ctx context.Context, id, callerID int64) (*models.Category, error) {
	category, err := s.repomanager.Categories(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, category.VaultID, callerID, models.PermissionRead); err != nil {
		return nil, err
	}
	return category, nil
}

// ListByVault returns the vault's categories ordered by name. Requires read
// or better.
func (s *CategoryService) ListByVault(ctx context.Context, vaultID, callerID int64) ([]*models.Category, error) {
	if err := s.access.Require(ctx, vaultID, callerID, models.PermissionRead); err != nil {
		return nil, err
	}
	return s.repomanager.Categories(s.db).ListByVault(ctx, vaultID)
}

// Delete removes the category after clearing the category reference on every
// item pointing at it, both inside one transaction: items are orphaned to
// null, never deleted with the category.
func (s *CategoryService) Delete(ctx context.Context, id, callerID int64) error {
	category, err := s.repomanager.Categories(s.db).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.Require(ctx, category.VaultID, callerID, models.PermissionWrite); err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Items(tx).ClearCategory(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Categories(tx).Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("error deleting category: %w", err)
	}
	return nil
}
