package users

import (
	"context"

	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Deactivate(ctx context.Context, id int64) error
}
