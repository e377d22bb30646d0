package permissions

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), time.Now())
	mock.ExpectQuery(`INSERT INTO vault_user_permissions`).
		WithArgs(int64(1), int64(9), models.PermissionWrite, int64(7)).
		WillReturnRows(rows)

	grant := &models.VaultUserPermission{VaultID: 1, UserID: 9, Permission: models.PermissionWrite, GrantedBy: 7}
	got, err := repo.Create(context.Background(), grant)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 5 {
		t.Fatalf("unexpected grant: %+v", got)
	}
}

func TestCreate_DuplicatePair(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO vault_user_permissions`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "vault_user_permissions_vault_id_user_id_key"})

	grant := &models.VaultUserPermission{VaultID: 1, UserID: 9, Permission: models.PermissionRead, GrantedBy: 7}
	_, err := repo.Create(context.Background(), grant)
	if !errors.Is(err, common.ErrorDuplicateGrant) {
		t.Fatalf("want ErrorDuplicateGrant, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO vault_user_permissions`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.VaultUserPermission{VaultID: 1, UserID: 9})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByVaultAndUser_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "vault_id", "user_id", "permission", "granted_by", "created_at"}).
		AddRow(int64(5), int64(1), int64(9), "write", int64(7), time.Now())
	mock.ExpectQuery(`SELECT .* FROM vault_user_permissions WHERE vault_id = \$1 AND user_id = \$2`).
		WithArgs(int64(1), int64(9)).
		WillReturnRows(rows)

	got, err := repo.GetByVaultAndUser(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("GetByVaultAndUser error: %v", err)
	}
	if got.Permission != models.PermissionWrite {
		t.Fatalf("unexpected grant: %+v", got)
	}
}

func TestGetByVaultAndUser_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM vault_user_permissions WHERE vault_id = \$1 AND user_id = \$2`).
		WithArgs(int64(1), int64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByVaultAndUser(context.Background(), 1, 9)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdatePermission_NoSuchGrant(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE vault_user_permissions SET permission = \$1 WHERE id = \$2`).
		WithArgs(models.PermissionAdmin, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePermission(context.Background(), 42, models.PermissionAdmin)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM vault_user_permissions WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestListByVault_ScansRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "vault_id", "user_id", "permission", "granted_by", "created_at"}).
		AddRow(int64(5), int64(1), int64(9), "read", int64(7), time.Now()).
		AddRow(int64(6), int64(1), int64(10), "admin", int64(7), time.Now())
	mock.ExpectQuery(`SELECT .* FROM vault_user_permissions WHERE vault_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	got, err := repo.ListByVault(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByVault error: %v", err)
	}
	if len(got) != 2 || got[0].Permission != models.PermissionRead || got[1].Permission != models.PermissionAdmin {
		t.Fatalf("unexpected grants: %+v", got)
	}
}
