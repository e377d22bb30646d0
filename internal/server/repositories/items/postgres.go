// Package items provides the PostgreSQL-backed repository for credential
// items. Sensitive columns are stored encrypted; this layer moves ciphertext
// verbatim and never sees plaintext.
package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
	"github.com/vaultkeeper/vaultkeeper/internal/dbx"
	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

const itemColumns = `id, title, type, vault_id, category_id, created_by,
		password, notes, card_number, card_cvv, license_key,
		website_url, username, card_holder_name, card_expiry_date, license_email,
		created_at, updated_at`

// PostgresRepository implements credential item storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.CredentialItem) (*models.CredentialItem, error) {
	query := `
		INSERT INTO credential_items
			(title, type, vault_id, category_id, created_by,
			 password, notes, card_number, card_cvv, license_key,
			 website_url, username, card_holder_name, card_expiry_date, license_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		item.Title, item.Type, item.VaultID, item.CategoryID, item.CreatedBy,
		item.Password, item.Notes, item.CardNumber, item.CardCVV, item.LicenseKey,
		item.WebsiteURL, item.Username, item.CardHolderName, item.CardExpiryDate, item.LicenseEmail).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.CredentialItem, error) {
	query := `SELECT ` + itemColumns + ` FROM credential_items WHERE id = $1`

	item := &models.CredentialItem{}
	err := scanItem(r.db.QueryRowContext(ctx, query, id), item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) Update(ctx context.Context, item *models.CredentialItem) error {
	query := `
		UPDATE credential_items SET
			title = $1, category_id = $2,
			password = $3, notes = $4, card_number = $5, card_cvv = $6, license_key = $7,
			website_url = $8, username = $9, card_holder_name = $10,
			card_expiry_date = $11, license_email = $12,
			updated_at = now()
		WHERE id = $13
	`
	res, err := r.db.ExecContext(ctx, query,
		item.Title, item.CategoryID,
		item.Password, item.Notes, item.CardNumber, item.CardCVV, item.LicenseKey,
		item.WebsiteURL, item.Username, item.CardHolderName,
		item.CardExpiryDate, item.LicenseEmail,
		item.ID)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM credential_items WHERE id = $1`, id)
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

func (r *PostgresRepository) ListByVault(ctx context.Context, vaultID int64) ([]*models.CredentialItem, error) {
	query := `SELECT ` + itemColumns + ` FROM credential_items WHERE vault_id = $1 ORDER BY title ASC`
	return r.queryItems(ctx, query, vaultID)
}

// Search applies the filter conditions, all ANDed. The free-text query
// matches the title only, case-insensitively.
func (r *PostgresRepository) Search(ctx context.Context, filter models.ItemFilter) ([]*models.CredentialItem, error) {
	var conds []string
	var args []any

	if len(filter.VaultIDs) == 0 {
		// No accessible vaults resolves to an empty result, not a full scan.
		return nil, nil
	}

	placeholders := make([]string, len(filter.VaultIDs))
	for i, id := range filter.VaultIDs {
		args = append(args, id)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}
	conds = append(conds, fmt.Sprintf("vault_id IN (%s)", strings.Join(placeholders, ", ")))

	if filter.CategorySet {
		if filter.CategoryID == nil {
			conds = append(conds, "category_id IS NULL")
		} else {
			args = append(args, *filter.CategoryID)
			conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
		}
	}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		conds = append(conds, fmt.Sprintf("title ILIKE $%d", len(args)))
	}

	query := `SELECT ` + itemColumns + ` FROM credential_items WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY title ASC`

	return r.queryItems(ctx, query, args...)
}

// ClearCategory nulls the category reference on all items pointing at the
// category; categories orphan items instead of cascading into them.
func (r *PostgresRepository) ClearCategory(ctx context.Context, categoryID int64) error {
	query := `UPDATE credential_items SET category_id = NULL, updated_at = now() WHERE category_id = $1`
	if _, err := r.db.ExecContext(ctx, query, categoryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteByVault removes all items of a vault; part of the vault delete cascade.
func (r *PostgresRepository) DeleteByVault(ctx context.Context, vaultID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM credential_items WHERE vault_id = $1`, vaultID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) queryItems(ctx context.Context, query string, args ...any) ([]*models.CredentialItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.CredentialItem
	for rows.Next() {
		item := &models.CredentialItem{}
		if err := scanItem(rows, item); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner, item *models.CredentialItem) error {
	return row.Scan(
		&item.ID, &item.Title, &item.Type, &item.VaultID, &item.CategoryID, &item.CreatedBy,
		&item.Password, &item.Notes, &item.CardNumber, &item.CardCVV, &item.LicenseKey,
		&item.WebsiteURL, &item.Username, &item.CardHolderName, &item.CardExpiryDate, &item.LicenseEmail,
		&item.CreatedAt, &item.UpdatedAt)
}
