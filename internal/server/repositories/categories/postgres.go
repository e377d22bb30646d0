// Package categories provides the PostgreSQL-backed repository for item
// grouping labels within a vault.
package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
	"github.com/vaultkeeper/vaultkeeper/internal/dbx"
	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

// PostgresRepository implements category storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (name, description, color, vault_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		category.Name, category.Description, category.Color, category.VaultID).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return category, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `
		SELECT id, name, description, color, vault_id, created_at, updated_at
		FROM categories WHERE id = $1
	`
	category := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&category.ID, &category.Name, &category.Description, &category.Color,
			&category.VaultID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return category, nil
}

func (r *PostgresRepository) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories SET name = $1, description = $2, color = $3, updated_at = now()
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, query, category.Name, category.Description, category.Color, category.ID)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
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

// ListByVault returns the vault's categories ordered by name ascending.
func (r *PostgresRepository) ListByVault(ctx context.Context, vaultID int64) ([]*models.Category, error) {
	query := `
		SELECT id, name, description, color, vault_id, created_at, updated_at
		FROM categories WHERE vault_id = $1 ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.Name, &category.Description, &category.Color,
			&category.VaultID, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByVault removes all categories of a vault; part of the vault delete
// cascade.
func (r *PostgresRepository) DeleteByVault(ctx context.Context, vaultID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE vault_id = $1`, vaultID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
