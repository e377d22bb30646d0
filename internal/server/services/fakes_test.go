package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
	"github.com/vaultkeeper/vaultkeeper/internal/dbx"
	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
	categoriesrepo "github.com/vaultkeeper/vaultkeeper/internal/server/repositories/categories"
	itemsrepo "github.com/vaultkeeper/vaultkeeper/internal/server/repositories/items"
	permissionsrepo "github.com/vaultkeeper/vaultkeeper/internal/server/repositories/permissions"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/repomanager"
	sessionsrepo "github.com/vaultkeeper/vaultkeeper/internal/server/repositories/sessions"
	usersrepo "github.com/vaultkeeper/vaultkeeper/internal/server/repositories/users"
	vaultsrepo "github.com/vaultkeeper/vaultkeeper/internal/server/repositories/vaults"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func strptr(s string) *string { return &s }
func intptr(n int64) *int64   { return &n }

// --- fakes ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byID    map[int64]*models.User
	byEmail map[string]*models.User

	deactivated   []int64
	deactivateErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Deactivate(ctx context.Context, id int64) error {
	if f.deactivateErr != nil {
		return f.deactivateErr
	}
	f.deactivated = append(f.deactivated, id)
	return nil
}

type fakeVaultsRepo struct {
	byID   map[int64]*models.Vault
	getErr error

	nextID    int64
	created   []*models.Vault
	createErr error

	updated   *models.Vault
	updateErr error

	deleted []int64

	owned      []*models.Vault
	ownedErr   error
	granted    []*models.VaultWithPermission
	grantedErr error
}

func (f *fakeVaultsRepo) Create(ctx context.Context, v *models.Vault) (*models.Vault, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.nextID != 0 {
		v.ID = f.nextID
	}
	f.created = append(f.created, v)
	return v, nil
}

func (f *fakeVaultsRepo) GetByID(ctx context.Context, id int64) (*models.Vault, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if v, ok := f.byID[id]; ok {
		return v, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeVaultsRepo) Update(ctx context.Context, v *models.Vault) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = v
	return nil
}

func (f *fakeVaultsRepo) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeVaultsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Vault, error) {
	return f.owned, f.ownedErr
}

func (f *fakeVaultsRepo) ListGrantedTo(ctx context.Context, userID int64) ([]*models.VaultWithPermission, error) {
	return f.granted, f.grantedErr
}

type fakeCategoriesRepo struct {
	byID   map[int64]*models.Category
	getErr error

	created   []*models.Category
	createErr error

	updated   *models.Category
	updateErr error

	deleted       []int64
	deleteErr     error
	deletedVaults []int64

	list    []*models.Category
	listErr error
}

func (f *fakeCategoriesRepo) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, c)
	return c, nil
}

func (f *fakeCategoriesRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCategoriesRepo) Update(ctx context.Context, c *models.Category) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = c
	return nil
}

func (f *fakeCategoriesRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCategoriesRepo) ListByVault(ctx context.Context, vaultID int64) ([]*models.Category, error) {
	return f.list, f.listErr
}

func (f *fakeCategoriesRepo) DeleteByVault(ctx context.Context, vaultID int64) error {
	f.deletedVaults = append(f.deletedVaults, vaultID)
	return nil
}

type fakeItemsRepo struct {
	byID   map[int64]*models.CredentialItem
	getErr error

	nextID    int64
	created   []*models.CredentialItem
	createErr error

	updated   *models.CredentialItem
	updateErr error

	deleted []int64

	list    []*models.CredentialItem
	listErr error

	searchFilter models.ItemFilter
	searchOut    []*models.CredentialItem
	searchErr    error

	clearedCategories []int64
	deletedVaults     []int64
}

func (f *fakeItemsRepo) Create(ctx context.Context, item *models.CredentialItem) (*models.CredentialItem, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.nextID != 0 {
		item.ID = f.nextID
	}
	f.created = append(f.created, item)
	return item, nil
}

func (f *fakeItemsRepo) GetByID(ctx context.Context, id int64) (*models.CredentialItem, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if item, ok := f.byID[id]; ok {
		return item, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeItemsRepo) Update(ctx context.Context, item *models.CredentialItem) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = item
	return nil
}

func (f *fakeItemsRepo) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeItemsRepo) ListByVault(ctx context.Context, vaultID int64) ([]*models.CredentialItem, error) {
	return f.list, f.listErr
}

func (f *fakeItemsRepo) Search(ctx context.Context, filter models.ItemFilter) ([]*models.CredentialItem, error) {
	f.searchFilter = filter
	return f.searchOut, f.searchErr
}

func (f *fakeItemsRepo) ClearCategory(ctx context.Context, categoryID int64) error {
	f.clearedCategories = append(f.clearedCategories, categoryID)
	return nil
}

func (f *fakeItemsRepo) DeleteByVault(ctx context.Context, vaultID int64) error {
	f.deletedVaults = append(f.deletedVaults, vaultID)
	return nil
}

type fakePermissionsRepo struct {
	byID   map[int64]*models.VaultUserPermission
	getErr error

	grantOut *models.VaultUserPermission
	grantErr error

	created   []*models.VaultUserPermission
	createErr error

	updatedID    int64
	updatedLevel models.Permission
	updateErr    error

	deleted []int64

	list    []*models.VaultUserPermission
	listErr error

	deletedVaults []int64
}

func (f *fakePermissionsRepo) Create(ctx context.Context, g *models.VaultUserPermission) (*models.VaultUserPermission, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, g)
	return g, nil
}

func (f *fakePermissionsRepo) GetByID(ctx context.Context, id int64) (*models.VaultUserPermission, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if g, ok := f.byID[id]; ok {
		return g, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakePermissionsRepo) GetByVaultAndUser(ctx context.Context, vaultID, userID int64) (*models.VaultUserPermission, error) {
	if f.grantErr != nil {
		return nil, f.grantErr
	}
	if f.grantOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.grantOut, nil
}

func (f *fakePermissionsRepo) UpdatePermission(ctx context.Context, id int64, permission models.Permission) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = id
	f.updatedLevel = permission
	return nil
}

func (f *fakePermissionsRepo) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePermissionsRepo) ListByVault(ctx context.Context, vaultID int64) ([]*models.VaultUserPermission, error) {
	return f.list, f.listErr
}

func (f *fakePermissionsRepo) ListByUser(ctx context.Context, userID int64) ([]*models.VaultUserPermission, error) {
	return f.list, f.listErr
}

func (f *fakePermissionsRepo) DeleteByVault(ctx context.Context, vaultID int64) error {
	f.deletedVaults = append(f.deletedVaults, vaultID)
	return nil
}

type fakeSessionsRepo struct {
	createErr     error
	createdUserID int64
	createdToken  string

	findOut *models.Session
	findErr error

	delErr  error
	deleted []string
}

func (f *fakeSessionsRepo) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdUserID = userID
	f.createdToken = token
	return nil
}

func (f *fakeSessionsRepo) Find(ctx context.Context, token string) (*models.Session, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeSessionsRepo) DeleteExpired(ctx context.Context) error { return nil }

type fakeRepoManager struct {
	u  *fakeUsersRepo
	v  *fakeVaultsRepo
	c  *fakeCategoriesRepo
	i  *fakeItemsRepo
	p  *fakePermissionsRepo
	se *fakeSessionsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return m.u }
func (m *fakeRepoManager) Vaults(db dbx.DBTX) vaultsrepo.Repository           { return m.v }
func (m *fakeRepoManager) Categories(db dbx.DBTX) categoriesrepo.Repository   { return m.c }
func (m *fakeRepoManager) Items(db dbx.DBTX) itemsrepo.Repository             { return m.i }
func (m *fakeRepoManager) Permissions(db dbx.DBTX) permissionsrepo.Repository { return m.p }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository       { return m.se }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)
