// Package permissions provides the PostgreSQL-backed repository for explicit
// vault access grants. The (vault_id, user_id) pair carries a unique
// constraint, so concurrent duplicate grants lose at the storage layer.
package permissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
	"github.com/vaultkeeper/vaultkeeper/internal/dbx"
	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

const uniqueViolation = "23505"

// PostgresRepository implements grant storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a grant row. A unique-constraint violation on
// (vault_id, user_id) surfaces as common.ErrorDuplicateGrant.
func (r *PostgresRepository) Create(ctx context.Context, grant *models.VaultUserPermission) (*models.VaultUserPermission, error) {
	query := `
		INSERT INTO vault_user_permissions (vault_id, user_id, permission, granted_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		grant.VaultID, grant.UserID, grant.Permission, grant.GrantedBy).
		Scan(&grant.ID, &grant.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorDuplicateGrant
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return grant, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.VaultUserPermission, error) {
	query := `
		SELECT id, vault_id, user_id, permission, granted_by, created_at
		FROM vault_user_permissions WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByVaultAndUser(ctx context.Context, vaultID, userID int64) (*models.VaultUserPermission, error) {
	query := `
		SELECT id, vault_id, user_id, permission, granted_by, created_at
		FROM vault_user_permissions WHERE vault_id = $1 AND user_id = $2
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, vaultID, userID))
}

// UpdatePermission mutates the permission level only; every other grant
// attribute is immutable once written.
func (r *PostgresRepository) UpdatePermission(ctx context.Context, id int64, permission models.Permission) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vault_user_permissions SET permission = $1 WHERE id = $2`, permission, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vault_user_permissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByVault(ctx context.Context, vaultID int64) ([]*models.VaultUserPermission, error) {
	query := `
		SELECT id, vault_id, user_id, permission, granted_by, created_at
		FROM vault_user_permissions WHERE vault_id = $1 ORDER BY created_at ASC
	`
	return r.queryGrants(ctx, query, vaultID)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.VaultUserPermission, error) {
	query := `
		SELECT id, vault_id, user_id, permission, granted_by, created_at
		FROM vault_user_permissions WHERE user_id = $1 ORDER BY created_at ASC
	`
	return r.queryGrants(ctx, query, userID)
}

// DeleteByVault removes all grants of a vault; part of the vault delete cascade.
func (r *PostgresRepository) DeleteByVault(ctx context.Context, vaultID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM vault_user_permissions WHERE vault_id = $1`, vaultID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.VaultUserPermission, error) {
	grant := &models.VaultUserPermission{}
	err := row.Scan(&grant.ID, &grant.VaultID, &grant.UserID,
		&grant.Permission, &grant.GrantedBy, &grant.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return grant, nil
}

func (r *PostgresRepository) queryGrants(ctx context.Context, query string, args ...any) ([]*models.VaultUserPermission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.VaultUserPermission
	for rows.Next() {
		grant := &models.VaultUserPermission{}
		if err := rows.Scan(&grant.ID, &grant.VaultID, &grant.UserID,
			&grant.Permission, &grant.GrantedBy, &grant.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
