package vaults

import (
	"context"

	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, vault *models.Vault) (*models.Vault, error)
	GetByID(ctx context.Context, id int64) (*models.Vault, error)
	Update(ctx context.Context, vault *models.Vault) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Vault, error)
	ListGrantedTo(ctx context.Context, userID int64) ([]*models.VaultWithPermission, error)
}
