package repomanager

import (
	"context"
	"database/sql"

	"github.com/vaultkeeper/vaultkeeper/internal/dbx"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/categories"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/items"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/permissions"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/sessions"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/users"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/vaults"
)

// RepositoryManager vends repository implementations bound to a concrete
// DBTX, so the same repository code runs inside and outside transactions.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Vaults(db dbx.DBTX) vaults.Repository
	Categories(db dbx.DBTX) categories.Repository
	Items(db dbx.DBTX) items.Repository
	Permissions(db dbx.DBTX) permissions.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
