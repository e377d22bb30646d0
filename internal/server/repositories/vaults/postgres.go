// Package vaults provides the PostgreSQL-backed repository for vaults.
package vaults

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
	"github.com/vaultkeeper/vaultkeeper/internal/dbx"
	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

// PostgresRepository implements vault storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, vault *models.Vault) (*models.Vault, error) {
	query := `
		INSERT INTO vaults (name, description, owner_id, is_shared)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		vault.Name, vault.Description, vault.OwnerID, vault.IsShared).
		Scan(&vault.ID, &vault.CreatedAt, &vault.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return vault, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Vault, error) {
	query := `
		SELECT id, name, description, owner_id, is_shared, created_at, updated_at
		FROM vaults WHERE id = $1
	`
	vault := &models.Vault{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&vault.ID, &vault.Name, &vault.Description, &vault.OwnerID,
			&vault.IsShared, &vault.CreatedAt, &vault.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return vault, nil
}

// Update saves the mutable vault fields. Patch semantics are applied by the
// service layer before calling Update with the full row.
func (r *PostgresRepository) Update(ctx context.Context, vault *models.Vault) error {
	query := `
		UPDATE vaults SET name = $1, description = $2, is_shared = $3, updated_at = now()
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, query, vault.Name, vault.Description, vault.IsShared, vault.ID)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaults WHERE id = $1`, id)
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

// ListGrantedTo returns vaults the user can reach through an explicit grant,
// each tagged with the grant's level. Owned vaults are not included here.
func (r *PostgresRepository) ListGrantedTo(ctx context.Context, userID int64) ([]*models.VaultWithPermission, error) {
	query := `
		SELECT v.id, v.name, v.description, v.owner_id, v.is_shared, v.created_at, v.updated_at, p.permission
		FROM vaults v
		JOIN vault_user_permissions p ON p.vault_id = v.id
		WHERE p.user_id = $1 ORDER BY v.name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.VaultWithPermission
	for rows.Next() {
		v := &models.VaultWithPermission{}
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.OwnerID,
			&v.IsShared, &v.CreatedAt, &v.UpdatedAt, &v.Permission); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Vault, error) {
	query := `
		SELECT id, name, description, owner_id, is_shared, created_at, updated_at
		FROM vaults WHERE owner_id = $1 ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Vault
	for rows.Next() {
		vault := &models.Vault{}
		if err := rows.Scan(&vault.ID, &vault.Name, &vault.Description, &vault.OwnerID,
			&vault.IsShared, &vault.CreatedAt, &vault.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, vault)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
