package permissions

import (
	"context"

	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, grant *models.VaultUserPermission) (*models.VaultUserPermission, error)
	GetByID(ctx context.Context, id int64) (*models.VaultUserPermission, error)
	GetByVaultAndUser(ctx context.Context, vaultID, userID int64) (*models.VaultUserPermission, error)
	UpdatePermission(ctx context.Context, id int64, permission models.Permission) error
	Delete(ctx context.Context, id int64) error
	ListByVault(ctx context.Context, vaultID int64) ([]*models.VaultUserPermission, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.VaultUserPermission, error)
	DeleteByVault(ctx context.Context, vaultID int64) error
}
