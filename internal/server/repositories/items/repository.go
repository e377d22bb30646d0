package items

import (
	"context"

	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.CredentialItem) (*models.CredentialItem, error)
	GetByID(ctx context.Context, id int64) (*models.CredentialItem, error)
	Update(ctx context.Context, item *models.CredentialItem) error
	Delete(ctx context.Context, id int64) error
	ListByVault(ctx context.Context, vaultID int64) ([]*models.CredentialItem, error)
	Search(ctx context.Context, filter models.ItemFilter) ([]*models.CredentialItem, error)
	ClearCategory(ctx context.Context, categoryID int64) error
	DeleteByVault(ctx context.Context, vaultID int64) error
}
