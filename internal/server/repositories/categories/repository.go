package categories

import (
	"context"

	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
	ListByVault(ctx context.Context, vaultID int64) ([]*models.Category, error)
	DeleteByVault(ctx context.Context, vaultID int64) error
}
